package save

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/JackWReid/fieldpad/internal/form"
)

// Saver commits a finished record. Implementations own their timeout policy.
type Saver interface {
	Save(ctx context.Context, rec form.Record) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, rec form.Record) error

func (f SaverFunc) Save(ctx context.Context, rec form.Record) error {
	return f(ctx, rec)
}

// Accept is a saver that always succeeds; the caller reads the record from the
// session result instead.
var Accept = SaverFunc(func(context.Context, form.Record) error { return nil })

// FileSaver writes the record as YAML to Path.
type FileSaver struct {
	Path string
}

func (s *FileSaver) Save(ctx context.Context, rec form.Record) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return NewUnexpectedError("failed to encode record", err)
	}

	// Write through a temp file so a failed save never leaves a partial record.
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".fieldpad-*.yaml")
	if err != nil {
		return NewUnexpectedError("cannot create output file", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return NewUnexpectedError("cannot write output file", err)
	}
	if err := tmp.Close(); err != nil {
		return NewUnexpectedError("cannot write output file", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return NewUnexpectedError(fmt.Sprintf("cannot replace %s", s.Path), err)
	}
	return nil
}
