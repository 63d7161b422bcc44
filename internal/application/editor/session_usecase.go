package editor

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/jhoicas/invoice-editor/internal/application/dto"
	"github.com/jhoicas/invoice-editor/internal/domain"
	"github.com/jhoicas/invoice-editor/internal/domain/entity"
	"github.com/jhoicas/invoice-editor/internal/domain/invoice"
	"github.com/jhoicas/invoice-editor/internal/domain/view"
	"github.com/jhoicas/invoice-editor/pkg/jwt"
	"github.com/jhoicas/invoice-editor/pkg/logger"
)

// MaxLogoBytes tamaño máximo del logo subido.
const MaxLogoBytes = 5 * 1024 * 1024

// JWTConfig configuración de los tokens de edición. Secret vacío = sin tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// SessionConfig valores por defecto de las sesiones nuevas.
type SessionConfig struct {
	Template        invoice.TemplateOptions
	DefaultTemplate *entity.Invoice // plantilla cargada de archivo (fechas vacías = hoy); nil = plantilla interna
	Tax             entity.Adjustment
	Discount        entity.Adjustment
	StrictFields    bool
	TTL             time.Duration
}

// SessionUseCase gestiona las sesiones de edición: un Editor por sesión.
type SessionUseCase struct {
	repo   SessionRepository
	pdf    InvoicePDFGenerator
	xlsx   InvoiceSpreadsheetExporter
	jwtCfg JWTConfig
	cfg    SessionConfig
	log    *logger.Logger
	now    func() time.Time
}

// NewSessionUseCase construye el caso de uso inyectando sus dependencias.
func NewSessionUseCase(
	repo SessionRepository,
	pdf InvoicePDFGenerator,
	xlsx InvoiceSpreadsheetExporter,
	jwtCfg JWTConfig,
	cfg SessionConfig,
	log *logger.Logger,
) *SessionUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionUseCase{
		repo:   repo,
		pdf:    pdf,
		xlsx:   xlsx,
		jwtCfg: jwtCfg,
		cfg:    cfg,
		log:    log.Component("editor"),
		now:    time.Now,
	}
}

// SetClock reemplaza time.Now (fechas de plantilla, último acceso y expiración).
func (uc *SessionUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// Create abre una sesión nueva. Devuelve el token de edición si hay secret configurado.
func (uc *SessionUseCase) Create(ctx context.Context, in dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	now := uc.now()
	sess := NewSession(uuid.New().String(), now)

	tax, discount := uc.cfg.Tax, uc.cfg.Discount
	if in.Tax != nil {
		tax = *in.Tax
	}
	if in.Discount != nil {
		discount = *in.Discount
	}

	initial := in.Invoice
	if initial == nil && uc.cfg.DefaultTemplate != nil {
		tpl := invoice.FillDates(uc.cfg.DefaultTemplate.Clone(), now, uc.cfg.Template)
		initial = &tpl
	}

	opts := []Option{
		WithAdjustments(tax, discount),
		WithTemplate(uc.cfg.Template),
		WithClock(uc.now),
		WithListener(uc.listenerFor(sess)),
	}
	if uc.cfg.StrictFields {
		opts = append(opts, WithStrictFields())
	}
	sess.Editor = New(initial, opts...)

	if err := uc.repo.Create(sess); err != nil {
		return nil, fmt.Errorf("crear sesión: %w", err)
	}

	token, err := uc.editToken(sess.ID)
	if err != nil {
		_ = uc.repo.Delete(sess.ID)
		return nil, err
	}

	uc.log.Info().Str("session_id", sess.ID).Int("lines", len(sess.Editor.Snapshot().ProductLines)).Msg("sesión de edición creada")

	resp := uc.toResponse(sess, view.ModeForm)
	resp.Token = token
	return resp, nil
}

// listenerFor registra cada cambio confirmado: incrementa la versión y lo deja en el log.
func (uc *SessionUseCase) listenerFor(sess *Session) Listener {
	return func(snapshot entity.Invoice) {
		v := sess.Bump()
		uc.log.Debug().
			Str("session_id", sess.ID).
			Int64("version", v).
			Int("lines", len(snapshot.ProductLines)).
			Msg("factura actualizada")
	}
}

// Get devuelve el estado de la sesión renderizado en el modo indicado.
func (uc *SessionUseCase) Get(ctx context.Context, id string, mode view.Mode) (*dto.SessionResponse, error) {
	sess, err := uc.session(id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(sess, mode), nil
}

// Apply ejecuta una operación de edición sobre la sesión.
//
// Retorna:
//   - domain.ErrNotFound      si la sesión no existe.
//   - domain.ErrInvalidInput  si la operación está mal formada.
//   - domain.ErrTypeMismatch / domain.ErrUnknownField solo con campos estrictos.
//
// Un índice de línea que ya no existe no es un error: la edición se descarta.
func (uc *SessionUseCase) Apply(ctx context.Context, id string, op dto.EditOperation) (*dto.SessionResponse, error) {
	sess, err := uc.session(id)
	if err != nil {
		return nil, err
	}
	ed := sess.Editor

	switch op.Op {
	case dto.OpSetField:
		if op.Name == "" {
			return nil, fmt.Errorf("%w: name requerido", domain.ErrInvalidInput)
		}
		if err := ed.SetField(op.Name, op.Value); err != nil {
			return nil, err
		}
	case dto.OpSetTax:
		if op.Enabled == nil && op.Percent == nil {
			return nil, fmt.Errorf("%w: enabled o percent requerido", domain.ErrInvalidInput)
		}
		if op.Percent != nil {
			ed.SetTaxPercent(*op.Percent)
		}
		if op.Enabled != nil {
			ed.SetTaxEnabled(*op.Enabled)
		}
	case dto.OpSetDiscount:
		if op.Enabled == nil && op.Percent == nil {
			return nil, fmt.Errorf("%w: enabled o percent requerido", domain.ErrInvalidInput)
		}
		if op.Percent != nil {
			ed.SetDiscountPercent(*op.Percent)
		}
		if op.Enabled != nil {
			ed.SetDiscountEnabled(*op.Enabled)
		}
	case dto.OpAddLine:
		ed.AddLine()
	case dto.OpRemoveLine:
		if !ed.RemoveLine(op.Index) {
			uc.log.Debug().Str("session_id", id).Int("index", op.Index).Msg("remove_line descartado: índice fuera de rango")
		}
	case dto.OpUpdateLine:
		text, ok := op.Value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: value debe ser texto", domain.ErrInvalidInput)
		}
		switch op.Field {
		case invoice.LineFieldDescription, invoice.LineFieldQuantity, invoice.LineFieldRate:
		default:
			return nil, fmt.Errorf("%w: field %q no admitido", domain.ErrInvalidInput, op.Field)
		}
		if !ed.UpdateLine(op.Index, op.Field, text) {
			uc.log.Debug().Str("session_id", id).Int("index", op.Index).Msg("update_line descartado: índice fuera de rango")
		}
	default:
		return nil, fmt.Errorf("%w: operación %q desconocida", domain.ErrInvalidInput, op.Op)
	}

	return uc.toResponse(sess, view.ModeForm), nil
}

// UploadLogo valida la imagen (png o jpeg, máx. MaxLogoBytes) y la guarda como data URL.
func (uc *SessionUseCase) UploadLogo(ctx context.Context, id string, data []byte) (*dto.SessionResponse, error) {
	sess, err := uc.session(id)
	if err != nil {
		return nil, err
	}
	dataURL, err := LogoDataURL(data)
	if err != nil {
		return nil, err
	}
	if err := sess.Editor.SetField("logo", dataURL); err != nil {
		return nil, err
	}
	return uc.toResponse(sess, view.ModeForm), nil
}

// LogoDataURL convierte los bytes de una imagen png/jpeg en data URL.
func LogoDataURL(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: logo vacío", domain.ErrInvalidInput)
	}
	if len(data) > MaxLogoBytes {
		return "", fmt.Errorf("%w: el logo supera %d bytes", domain.ErrInvalidInput, MaxLogoBytes)
	}
	mt := mimetype.Detect(data)
	if !mt.Is("image/png") && !mt.Is("image/jpeg") {
		return "", fmt.Errorf("%w: formato de logo %s no admitido (png o jpeg)", domain.ErrInvalidInput, mt.String())
	}
	return "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// RefreshToken emite un token de edición nuevo para una sesión viva. Sin
// secreto configurado devuelve "" sin error.
func (uc *SessionUseCase) RefreshToken(ctx context.Context, id string) (string, error) {
	if _, err := uc.session(id); err != nil {
		return "", err
	}
	return uc.editToken(id)
}

func (uc *SessionUseCase) editToken(id string) (string, error) {
	if uc.jwtCfg.Secret == "" {
		return "", nil
	}
	t, err := jwt.Generate(uc.jwtCfg.Secret, id, jwt.ScopeEdit, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return "", fmt.Errorf("generar token de edición: %w", err)
	}
	return t, nil
}

// Share emite un token de solo exportación para la sesión.
func (uc *SessionUseCase) Share(ctx context.Context, id string) (string, error) {
	if _, err := uc.session(id); err != nil {
		return "", err
	}
	if uc.jwtCfg.Secret == "" {
		return "", fmt.Errorf("%w: tokens deshabilitados (JWT_SECRET vacío)", domain.ErrInvalidInput)
	}
	return jwt.Generate(uc.jwtCfg.Secret, id, jwt.ScopeExport, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}

// ExportPDF genera el PDF del estado actual de la sesión.
func (uc *SessionUseCase) ExportPDF(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	sess, err := uc.session(id)
	if err != nil {
		return nil, "", err
	}
	doc := view.Build(sess.Editor.State(), view.ModePDF)
	pdfBytes, err = uc.pdf.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, ExportFilename(doc.Invoice, sess.ID, "pdf"), nil
}

// ExportXLSX genera la hoja de cálculo del estado actual de la sesión.
func (uc *SessionUseCase) ExportXLSX(ctx context.Context, id string) ([]byte, string, error) {
	sess, err := uc.session(id)
	if err != nil {
		return nil, "", err
	}
	doc := view.Build(sess.Editor.State(), view.ModePDF)
	out, err := uc.xlsx.ExportInvoice(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("xlsx: exportación fallida: %w", err)
	}
	return out, ExportFilename(doc.Invoice, sess.ID, "xlsx"), nil
}

// Delete cierra la sesión.
func (uc *SessionUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.session(id); err != nil {
		return err
	}
	if err := uc.repo.Delete(id); err != nil {
		return fmt.Errorf("eliminar sesión: %w", err)
	}
	uc.log.Info().Str("session_id", id).Msg("sesión de edición cerrada")
	return nil
}

// Reap elimina las sesiones inactivas más allá del TTL. Devuelve cuántas eliminó.
func (uc *SessionUseCase) Reap() int {
	if uc.cfg.TTL <= 0 {
		return 0
	}
	n := uc.repo.DeleteExpired(uc.now().Add(-uc.cfg.TTL))
	if n > 0 {
		uc.log.Info().Int("expired", n).Msg("sesiones expiradas eliminadas")
	}
	return n
}

// RunReaper ejecuta Reap cada interval hasta que ctx se cancele.
func (uc *SessionUseCase) RunReaper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uc.Reap()
		}
	}
}

func (uc *SessionUseCase) session(id string) (*Session, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	sess, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("obtener sesión: %w", err)
	}
	if sess == nil {
		return nil, domain.ErrNotFound
	}
	sess.Touch(uc.now())
	return sess, nil
}

// toResponse lee versión y estado en la misma sección crítica del editor: la
// versión la incrementa el listener, que corre bajo ese mutex.
func (uc *SessionUseCase) toResponse(sess *Session, mode view.Mode) *dto.SessionResponse {
	var (
		state   invoice.State
		version int64
	)
	sess.Editor.Read(func(s invoice.State) {
		state = s
		version = sess.Version()
	})
	return &dto.SessionResponse{
		ID:       sess.ID,
		Version:  version,
		Document: view.Build(state, mode),
	}
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ExportFilename arma "invoice_<número>.<ext>"; sin número usa el fallback.
func ExportFilename(inv entity.Invoice, fallback, ext string) string {
	base := strings.Trim(unsafeFilename.ReplaceAllString(strings.TrimSpace(inv.InvoiceTitle), "_"), "_")
	if base == "" {
		base = fallback
	}
	return "invoice_" + base + "." + ext
}
