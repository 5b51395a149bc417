package report

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/spec-kit/worker-directory/internal/domain"
)

const (
	// FileName is the name the report is downloaded or written under.
	FileName = "worker_list_report.pdf"
	// Title is printed on the first page above the table.
	Title = "Worker List Report"

	titleFontSize = 16
	titleX        = 10.0
	titleY        = 20.0
	imageX        = 10.0
	imageY        = 30.0
	imageWidth    = 180.0

	// DefaultMaxRasterWidth keeps very wide tables from producing huge embedded images.
	DefaultMaxRasterWidth = 2400

	tableImageName = "worker-table"
)

// Options tunes the exporter.
type Options struct {
	// MaxRasterWidth caps the bitmap width in pixels; zero selects DefaultMaxRasterWidth.
	MaxRasterWidth int
	// Uncompressed disables stream compression in the generated document.
	Uncompressed bool
}

// Exporter turns the displayed staff list into a single-page PDF report.
type Exporter struct {
	maxRasterWidth int
	compress       bool
	logger         *zap.Logger
}

// NewExporter builds an exporter.
func NewExporter(opts Options, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxWidth := opts.MaxRasterWidth
	if maxWidth <= 0 {
		maxWidth = DefaultMaxRasterWidth
	}
	return &Exporter{maxRasterWidth: maxWidth, compress: !opts.Uncompressed, logger: logger}
}

// Placement returns where a raster of the given pixel size lands on the page, in mm.
// The width is fixed and the height follows the raster's aspect ratio.
func Placement(rasterWidth, rasterHeight int) (x, y, w, h float64) {
	if rasterWidth <= 0 {
		return imageX, imageY, imageWidth, 0
	}
	return imageX, imageY, imageWidth, float64(rasterHeight) * imageWidth / float64(rasterWidth)
}

// Export writes the report for records to w. The context is honoured up to the
// point where the document starts serialising.
func (e *Exporter) Export(ctx context.Context, records []domain.StaffRecord, w io.Writer) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(e.compress)
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle(Title, false)
	doc.SetCreator("worker-directory", false)
	doc.AddPage()
	doc.SetFont("Helvetica", "", titleFontSize)
	doc.Text(titleX, titleY, Title)

	raster, err := Rasterize(TableFromRecords(records), e.maxRasterWidth)
	if err != nil {
		return fmt.Errorf("rasterize table: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, raster); err != nil {
		return fmt.Errorf("encode table image: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader(tableImageName, opts, &buf)
	bounds := raster.Bounds()
	x, y, width, height := Placement(bounds.Dx(), bounds.Dy())
	doc.ImageOptions(tableImageName, x, y, width, height, false, opts, 0, "")
	if err := doc.Error(); err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	e.logger.Debug("report exported",
		zap.Int("rows", len(records)),
		zap.Int("raster_width", bounds.Dx()),
		zap.Int("raster_height", bounds.Dy()),
	)
	return nil
}
