package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ninetytwo-orders/internal/grid"

	"github.com/olekukonko/tablewriter"
)

const usage = `usage: sheetctl [-server URL] -slug SLUG <command> [args]

commands:
  show                         打印表格与合计
  set ROW KEY VALUE            修改单元格（ROW 从 1 开始）
  paste ROW KEY                从标准输入读取制表符分隔文本并填充
  add-row                      追加空行
  delete-row ROW               删除行
  export [-mode full|factory] [-o FILE]  导出打印文档
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "sheetctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("sheetctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	server := fs.String("server", envOr("SHEETCTL_SERVER", "http://localhost:3000"), "订单服务地址")
	slug := fs.String("slug", "", "订单标识")
	timeout := fs.Duration("timeout", 15*time.Second, "单次请求超时")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if strings.TrimSpace(*slug) == "" || len(rest) == 0 {
		fs.Usage()
		return errors.New("slug and command are required")
	}

	store := grid.NewHTTPStore(*server)
	store.Client.Timeout = *timeout
	session := grid.NewSession(store, *slug, grid.WithSaveErrorHandler(func(rowID uint, err error) {
		fmt.Fprintf(stderr, "row %d not saved: %v\n", rowID, err)
	}))

	command, params := rest[0], rest[1:]
	if command == "export" {
		return runExport(ctx, store, *slug, params, stdout)
	}
	if err := session.Load(ctx); err != nil {
		return err
	}

	switch command {
	case "show":
		return printGrid(session, stdout)
	case "set":
		if len(params) != 3 {
			return errors.New("set requires ROW KEY VALUE")
		}
		index, err := rowIndex(params[0])
		if err != nil {
			return err
		}
		if err := session.SetCell(index, params[1], params[2]); err != nil {
			return err
		}
		return session.Flush(ctx)
	case "paste":
		if len(params) != 2 {
			return errors.New("paste requires ROW KEY")
		}
		index, err := rowIndex(params[0])
		if err != nil {
			return err
		}
		text, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}
		result, err := session.Paste(ctx, index, params[1], string(text))
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "pasted %d cells into %d rows, skipped %d\n", result.Cells, len(result.Rows), result.Skipped)
		return nil
	case "add-row":
		id, err := session.AddRow(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "added row %d\n", id)
		return nil
	case "delete-row":
		if len(params) != 1 {
			return errors.New("delete-row requires ROW")
		}
		index, err := rowIndex(params[0])
		if err != nil {
			return err
		}
		return session.DeleteRow(ctx, index)
	}
	fs.Usage()
	return fmt.Errorf("unknown command %q", command)
}

func runExport(ctx context.Context, store *grid.HTTPStore, slug string, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	mode := fs.String("mode", "full", "full | factory")
	output := fs.String("o", "", "输出文件，缺省写到标准输出")
	if err := fs.Parse(args); err != nil {
		return err
	}
	body, err := store.Export(ctx, slug, *mode)
	if err != nil {
		return err
	}
	if *output == "" {
		_, err = stdout.Write(body)
		return err
	}
	return os.WriteFile(*output, body, 0o644)
}

func printGrid(session *grid.Session, out io.Writer) error {
	view, err := session.Render()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (%s)\n", view.Title, view.Slug)

	table := tablewriter.NewWriter(out)
	header := append([]string{"#"}, view.Headers...)
	table.Header(toAny(header)...)
	for _, row := range view.Rows {
		line := make([]string, 0, len(row.Cells)+1)
		line = append(line, strconv.Itoa(row.Index+1))
		for _, cell := range row.Cells {
			line = append(line, cell.Value)
		}
		if err := table.Append(line); err != nil {
			return err
		}
	}
	footer := make([]string, 0, len(view.Keys)+1)
	footer = append(footer, "TOTAL")
	for _, key := range view.Keys {
		footer = append(footer, view.Totals[key])
	}
	table.Footer(toAny(footer)...)
	return table.Render()
}

func rowIndex(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid row %q", raw)
	}
	return n - 1, nil
}

func toAny(values []string) []any {
	result := make([]any, len(values))
	for i, v := range values {
		result[i] = v
	}
	return result
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
