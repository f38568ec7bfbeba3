package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/internal/hash"
	"github.com/arloliu/zbewalgo/internal/pagefile"
)

func newDecompressCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decompress <in> <out>",
		Short: "restore a file written by compress",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.decompressFile(cmd, args[0], args[1])
		},
	}
}

func (a *app) decompressFile(cmd *cobra.Command, in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return errors.Wrap(err, "open input")
	}
	defer f.Close()

	pr, err := pagefile.NewReader(bufio.NewReader(f))
	if err != nil {
		return err
	}

	var (
		records []pagefile.Record
		offsets []int
		total   int
	)
	for {
		rec, err := pr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		rec.Payload = bytes.Clone(rec.Payload)
		records = append(records, rec)
		offsets = append(offsets, total)
		total += rec.Size
	}

	data := make([]byte, total)
	err = forEachPage(cmd.Context(), a.eng, a.cfg.Workers, len(records), func(w *engine.Worker, i int) error {
		rec := records[i]
		page := data[offsets[i] : offsets[i]+rec.Size]

		if rec.Kind == pagefile.KindCompressed {
			decoded, err := w.Decompress(nil, rec.Payload)
			if err != nil {
				return errors.Wrapf(err, "page %d", i)
			}
			if len(decoded) != rec.Size {
				return errors.Newf("page %d: decoded %d bytes, want %d", i, len(decoded), rec.Size)
			}
			copy(page, decoded)
		} else {
			copy(page, rec.Payload)
		}

		if hash.Page(page) != rec.Checksum {
			return errors.Newf("page %d: checksum mismatch", i)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrap(err, "write output")
	}
	a.log.Info("decompressed file", zap.String("input", in), zap.String("output", out), zap.Int("pages", len(records)))
	fmt.Fprintf(cmd.OutOrStdout(), "pages=%d bytes=%d\n", len(records), total)

	return nil
}
