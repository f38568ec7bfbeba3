package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/arloliu/zbewalgo/internal/hash"
	"github.com/arloliu/zbewalgo/internal/pagefile"
)

func newCompressCmd(a *app) *cobra.Command {
	var metricsFile string

	cmd := &cobra.Command{
		Use:   "compress <in> <out>",
		Short: "compress a file page by page",
		Long: `Compress splits <in> into 4096-byte pages, compresses every page with the
adaptive engine and writes a page file to <out>. Pages that do not compress
are stored as they are.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.compressFile(cmd, args[0], args[1]); err != nil {
				return err
			}

			return a.writeMetrics(metricsFile)
		},
	}
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write engine metrics to this file in Prometheus text format")

	return cmd
}

func (a *app) compressFile(cmd *cobra.Command, in, out string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return errors.Wrap(err, "read input")
	}
	pages := splitPages(data)
	records := make([]pagefile.Record, len(pages))

	err = forEachPage(cmd.Context(), a.eng, a.cfg.Workers, len(pages), func(w *engine.Worker, i int) error {
		page := pages[i]
		rec := pagefile.Record{Kind: pagefile.KindRaw, Size: len(page), Checksum: hash.Page(page), Payload: page}

		block, err := w.Compress(nil, page)
		switch {
		case err == nil:
			rec.Kind = pagefile.KindCompressed
			rec.Payload = block
		case !errors.Is(err, errs.ErrNotCompressible):
			return errors.Wrapf(err, "page %d", i)
		}
		records[i] = rec

		return nil
	})
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	pw, err := pagefile.NewWriter(bw, format.MaxInputSize)
	if err != nil {
		return err
	}
	var stored, compressed int
	for _, rec := range records {
		if err := pw.Write(rec); err != nil {
			return err
		}
		stored += len(rec.Payload)
		if rec.Kind == pagefile.KindCompressed {
			compressed++
		}
	}
	if err := pw.Close(); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "flush output")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close output")
	}

	a.log.Info("compressed file",
		zap.String("input", in),
		zap.String("output", out),
		zap.Int("pages", len(records)),
		zap.Int("compressed_pages", compressed))

	ratio := 0.0
	if len(data) > 0 {
		ratio = float64(stored) / float64(len(data))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "pages=%d compressed=%d raw=%d bytes=%d->%d ratio=%.3f\n",
		len(records), compressed, len(records)-compressed, len(data), stored, ratio)

	return nil
}
