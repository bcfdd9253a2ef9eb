// Package main provides the darray CLI.
package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/born-ml/darray/darray"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const version = "v0.0.1-dev"

func main() {
	defer klog.Flush()
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "darray: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return nil
	}
	switch args[0] {
	case "version":
		fmt.Fprintf(out, "darray %s\n", version)
		return nil
	case "bench":
		return bench(args[1:], out)
	default:
		usage(out)
		return errors.Errorf("unknown command %q", args[0])
	}
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "darray - strided multi-dimensional arrays for Go")
	fmt.Fprintf(out, "Version: %s\n\n", version)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  version    Show version")
	fmt.Fprintln(out, "  bench      Time mm or copy: bench -op mm|copy -size N -threads T -l2 BYTES")
}

func bench(args []string, out io.Writer) error {
	cfg := darray.DefaultConfig()
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	fs.SetOutput(out)
	op := fs.String("op", "mm", "operation to time: mm or copy")
	size := fs.Int("size", 512, "matrix side")
	fs.IntVar(&cfg.Threads, "threads", cfg.Threads, "worker threads")
	fs.IntVar(&cfg.L2CacheBytes, "l2", cfg.L2CacheBytes, "L2 cache size in bytes")
	seed := fs.Uint64("seed", 1, "random seed")
	klog.InitFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *size <= 0 {
		return errors.Errorf("bench: size must be positive, got %d", *size)
	}

	m := darray.NewManager(cfg)
	defer m.Close()
	f := m.Double()
	rng := rand.New(rand.NewPCG(*seed, *seed))
	shape := darray.ShapeOf(*size, *size)
	a := f.Random(shape, rng, darray.C)

	var result *darray.DArray[float64]
	start := time.Now()
	err := darray.Try(func() {
		switch *op {
		case "mm":
			result = a.Mm(f.Random(shape, rng, darray.C), darray.C)
		case "copy":
			result = f.Zeros(shape, darray.C)
			a.T().CopyTo(result, darray.C)
		default:
			panic(errors.Wrapf(darray.ErrIllegalArgument, "bench: unknown op %q", *op))
		}
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	klog.V(1).Infof("bench: op=%s size=%d threads=%d l2=%d", *op, *size, m.Threads(), m.L2CacheBytes())
	fmt.Fprintf(out, "%s %dx%d threads=%d: %v checksum=%.6g\n", *op, *size, *size, m.Threads(), elapsed, result.Sum())
	return nil
}
