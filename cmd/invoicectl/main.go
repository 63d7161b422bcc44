// invoicectl renderiza y calcula facturas desde archivos YAML/JSON sin levantar el servidor.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jhoicas/invoice-editor/internal/application/dto"
	"github.com/jhoicas/invoice-editor/internal/application/editor"
	"github.com/jhoicas/invoice-editor/internal/domain/entity"
	"github.com/jhoicas/invoice-editor/internal/domain/invoice"
	"github.com/jhoicas/invoice-editor/internal/domain/view"
	infrapdf "github.com/jhoicas/invoice-editor/internal/infrastructure/pdf"
	infraxlsx "github.com/jhoicas/invoice-editor/internal/infrastructure/xlsx"
	"github.com/jhoicas/invoice-editor/internal/infrastructure/yamlfile"
	"github.com/jhoicas/invoice-editor/pkg/logger"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "invoicectl:", err)
		os.Exit(1)
	}
}

func newApp(stdout io.Writer) *cli.App {
	return &cli.App{
		Name:      "invoicectl",
		Usage:     "plantillas, totales y exportación de facturas",
		Writer:    stdout,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"LOG_LEVEL"}},
		},
		Commands: []*cli.Command{
			templateCommand(),
			totalsCommand(),
			renderCommand(),
		},
	}
}

func templateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "currency", Value: invoice.DefaultCurrency, EnvVars: []string{"INVOICE_CURRENCY"}},
		&cli.IntFlag{Name: "due-days", Value: invoice.DefaultDueDays, EnvVars: []string{"INVOICE_DUE_DAYS"}},
	}
}

func adjustmentFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Usage: "snapshot YAML/JSON {invoice, tax, discount}", Required: true},
		&cli.Float64Flag{Name: "tax", Usage: "porcentaje de impuesto (activa el impuesto)"},
		&cli.Float64Flag{Name: "discount", Usage: "porcentaje de descuento (activa el descuento)"},
	}
}

func templateCommand() *cli.Command {
	return &cli.Command{
		Name:  "template",
		Usage: "imprime la plantilla por defecto como YAML",
		Flags: templateFlags(),
		Action: func(c *cli.Context) error {
			inv := invoice.DefaultInvoice(time.Now(), templateOptions(c))
			out, err := yamlfile.Marshal(yamlfile.Snapshot{Invoice: inv})
			if err != nil {
				return fmt.Errorf("serializar plantilla: %w", err)
			}
			_, err = c.App.Writer.Write(out)
			return err
		},
	}
}

func totalsCommand() *cli.Command {
	return &cli.Command{
		Name:  "totals",
		Usage: "calcula subtotal, impuesto, descuento y total de un snapshot",
		Flags: append(adjustmentFlags(), templateFlags()...),
		Action: func(c *cli.Context) error {
			snap, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			t := invoice.Calculate(snap.Invoice.ProductLines, snap.Tax, snap.Discount)
			sub, tax, disc, total := t.Formatted()
			inv := snap.Invoice
			w := c.App.Writer
			fmt.Fprintf(w, "%-20s %s %s\n", inv.SubTotalLabel, inv.Currency, sub)
			if snap.Tax.Enabled {
				fmt.Fprintf(w, "%-20s %s %s\n", view.PercentLabel(inv.TaxLabel, snap.Tax.Percent), inv.Currency, tax)
			}
			if snap.Discount.Enabled {
				fmt.Fprintf(w, "%-20s %s %s\n", view.PercentLabel(inv.DiscountLabel, snap.Discount.Percent), inv.Currency, disc)
			}
			fmt.Fprintf(w, "%-20s %s %s\n", inv.TotalLabel, inv.Currency, total)
			return nil
		},
	}
}

func renderCommand() *cli.Command {
	flags := append(adjustmentFlags(), templateFlags()...)
	flags = append(flags,
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "archivo de salida (.pdf o .xlsx)", Required: true},
		&cli.StringFlag{Name: "format", Usage: "pdf | xlsx (por defecto según la extensión de --out)"},
	)
	return &cli.Command{
		Name:  "render",
		Usage: "exporta un snapshot a PDF o XLSX",
		Flags: flags,
		Action: func(c *cli.Context) error {
			log := logger.New(logger.Config{Env: "development", Level: c.String("log-level"), Output: os.Stderr})

			snap, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			format := strings.ToLower(c.String("format"))
			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(c.String("out"))), ".")
			}

			uc := editor.NewRenderUseCase(infrapdf.NewMarotoPDFGenerator(), infraxlsx.NewExcelExporter())
			req := dto.RenderRequest{Invoice: snap.Invoice, Tax: snap.Tax, Discount: snap.Discount}

			var out []byte
			switch format {
			case "pdf":
				out, _, err = uc.PDF(context.Background(), req)
			case "xlsx":
				out, _, err = uc.XLSX(context.Background(), req)
			default:
				return fmt.Errorf("formato %q no admitido (pdf o xlsx)", format)
			}
			if err != nil {
				return err
			}
			if err := os.WriteFile(c.String("out"), out, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", c.String("out"), err)
			}
			log.Info().Str("out", c.String("out")).Str("format", format).Int("bytes", len(out)).Msg("factura exportada")
			return nil
		},
	}
}

func templateOptions(c *cli.Context) invoice.TemplateOptions {
	return invoice.TemplateOptions{Currency: c.String("currency"), DueDays: c.Int("due-days")}
}

// loadSnapshot lee --in sobre la plantilla por defecto y aplica --tax/--discount.
func loadSnapshot(c *cli.Context) (yamlfile.Snapshot, error) {
	base := invoice.DefaultInvoice(time.Now(), templateOptions(c))
	snap, err := yamlfile.LoadSnapshot(c.String("in"), base)
	if err != nil {
		return yamlfile.Snapshot{}, err
	}
	if c.IsSet("tax") {
		snap.Tax = entity.Adjustment{Enabled: true, Percent: c.Float64("tax")}
	}
	if c.IsSet("discount") {
		snap.Discount = entity.Adjustment{Enabled: true, Percent: c.Float64("discount")}
	}
	return snap, nil
}
