package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/sir_venger/vidstream/pkg/vidclient"
)

const defaultServer = "http://localhost:5000"

const usage = `usage: vidctl [-server URL] [-quiet] <command> [args]

commands:
  upload [-title T] FILE     upload a video
  list                       print the catalog as JSON
  fetch [-range S-E] [-o OUT] KEY
                             download a video or a byte range of it
`

func main() {
	server := flag.String("server", envOr("VIDSTREAM_URL", defaultServer), "server base URL")
	quiet := flag.Bool("quiet", false, "disable progress output")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var progress io.Writer = os.Stderr
	if *quiet {
		progress = nil
	}
	cli := vidclient.New(progress)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd, args := flag.Arg(0), flag.Args()[1:]; cmd {
	case "upload":
		err = upload(ctx, cli, *server, args)
	case "list":
		err = list(ctx, cli, *server)
	case "fetch":
		err = fetch(ctx, cli, *server, args)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "vidctl:", err)
		os.Exit(1)
	}
}

func upload(ctx context.Context, cli vidclient.Client, server string, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	title := fs.String("title", "", "video title (defaults to the file name)")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("upload needs exactly one FILE")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	video, err := cli.Upload(ctx, server, vidclient.UploadRequest{
		Title:    *title,
		FileName: filepath.Base(f.Name()),
		Reader:   f,
		Size:     info.Size(),
	})
	if err != nil {
		return err
	}

	return printJSON(video)
}

func list(ctx context.Context, cli vidclient.Client, server string) error {
	videos, err := cli.List(ctx, server)
	if err != nil {
		return err
	}
	return printJSON(videos)
}

func fetch(ctx context.Context, cli vidclient.Client, server string, args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	rangeFlag := fs.String("range", "", "byte range START-END or START-")
	outPath := fs.String("o", "", "output file (defaults to KEY)")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("fetch needs exactly one KEY")
	}
	key := fs.Arg(0)

	var rng *vidclient.Range
	if *rangeFlag != "" {
		r, err := parseRangeFlag(*rangeFlag)
		if err != nil {
			return err
		}
		rng = &r
	}

	stream, err := cli.Stream(ctx, server, key, rng)
	if err != nil {
		return err
	}
	defer stream.Close()

	if *outPath == "" {
		*outPath = filepath.Base(key)
	}
	out, err := os.Create(*outPath)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, stream); err != nil {
		_ = out.Close()
		return err
	}
	if stream.ContentRange != "" {
		fmt.Fprintln(os.Stderr, "Content-Range:", stream.ContentRange)
	}
	return out.Close()
}

func parseRangeFlag(v string) (vidclient.Range, error) {
	startStr, endStr, ok := strings.Cut(v, "-")
	if !ok {
		return vidclient.Range{}, fmt.Errorf("invalid range %q, want START-END", v)
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return vidclient.Range{}, fmt.Errorf("invalid range start %q", startStr)
	}

	end := int64(-1)
	if endStr != "" {
		if end, err = strconv.ParseInt(endStr, 10, 64); err != nil || end < start {
			return vidclient.Range{}, fmt.Errorf("invalid range end %q", endStr)
		}
	}

	return vidclient.Range{Start: start, End: end}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
