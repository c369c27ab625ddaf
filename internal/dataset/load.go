package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/launch-dashboard/internal/model"
)

// Format identifies a dataset file type.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// Source describes where the launch table is read from.
type Source struct {
	Path   string
	Format Format // empty means detect from the file extension
	Sheet  string // XLSX worksheet name, first sheet when empty
}

// DetectFormat infers the format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", eris.Errorf("dataset: cannot detect format of %q", path)
	}
}

// Load reads the whole launch table once. Any failure is a startup fault.
func Load(ctx context.Context, src Source) (*Table, error) {
	if src.Path == "" {
		return nil, eris.New("dataset: path is required")
	}

	format := src.Format
	if format == "" {
		f, err := DetectFormat(src.Path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	if _, err := os.Stat(src.Path); err != nil {
		return nil, eris.Wrapf(err, "dataset: stat %s", src.Path)
	}

	var (
		records []model.Launch
		err     error
	)
	switch format {
	case FormatCSV:
		records, err = loadCSV(src.Path)
	case FormatXLSX:
		records, err = ReadXLSX(src.Path, XLSXOptions{SheetName: src.Sheet})
	case FormatSQLite:
		records, err = loadSQLite(ctx, src.Path)
	default:
		return nil, eris.Errorf("dataset: unsupported format %q", format)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: load %s", src.Path)
	}

	table, err := NewTable(records)
	if err != nil {
		return nil, err
	}

	minMass, maxMass := table.PayloadBounds()
	zap.L().Info("dataset loaded",
		zap.String("path", src.Path),
		zap.String("format", string(format)),
		zap.Int("records", table.Len()),
		zap.Strings("sites", table.Sites()),
		zap.Float64("min_payload_kg", minMass),
		zap.Float64("max_payload_kg", maxMass),
	)

	return table, nil
}

func loadCSV(path string) ([]model.Launch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open csv")
	}
	defer f.Close()

	return ReadCSV(f)
}

func loadSQLite(ctx context.Context, path string) ([]model.Launch, error) {
	st, err := NewSQLite(path)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	return st.ListLaunches(ctx)
}
