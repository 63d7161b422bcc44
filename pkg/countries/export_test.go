package countries

// CachedLanguages expone el número de idiomas en caché para los tests.
var CachedLanguages = cachedLanguages
