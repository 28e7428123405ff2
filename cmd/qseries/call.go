package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/njchilds90/qseries"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// parseCall turns `tool [json-params]` into a request.
func parseCall(tool, params string) (qseries.ToolRequest, error) {
	req := qseries.ToolRequest{Tool: tool, Params: map[string]interface{}{}}
	params = strings.TrimSpace(params)
	if params == "" {
		return req, nil
	}
	if err := json.Unmarshal([]byte(params), &req.Params); err != nil {
		return req, fmt.Errorf("params for %s: %w", tool, err)
	}
	return req, nil
}

func printResponse(w io.Writer, resp qseries.ToolResponse) error {
	if resp.Error != "" {
		return fmt.Errorf("%s", resp.Error)
	}
	_, err := fmt.Fprintln(w, resp.String)
	return err
}

func newCallCmd(opts *options, reg *qseries.SymbolRegistry) *cobra.Command {
	var asJSON, latex bool
	cmd := &cobra.Command{
		Use:   "call <tool> [json-params]",
		Short: "Run a single tool call",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := ""
			if len(args) == 2 {
				params = args[1]
			}
			req, err := parseCall(args[0], params)
			if err != nil {
				return err
			}
			resp := qseries.HandleToolCall(reg, req.WithTruncation(opts.trunc))
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			if latex && resp.LaTeX != "" {
				resp.String = resp.LaTeX
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full JSON response")
	cmd.Flags().BoolVar(&latex, "latex", false, "Print series results as LaTeX")
	return cmd
}

func newBatchCmd(opts *options, reg *qseries.SymbolRegistry) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Run newline-delimited JSON tool requests concurrently",
		Long: "Each non-empty line of <file> (\"-\" for stdin) is a request " +
			"{\"tool\": ..., \"params\": {...}}. Responses are written as JSON lines in input order.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.jobs < 1 {
				return fmt.Errorf("--jobs must be at least 1, got %d", opts.jobs)
			}
			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			var reqs []qseries.ToolRequest
			sc := bufio.NewScanner(in)
			sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
			for line := 1; sc.Scan(); line++ {
				text := strings.TrimSpace(sc.Text())
				if text == "" {
					continue
				}
				var req qseries.ToolRequest
				if err := json.Unmarshal([]byte(text), &req); err != nil {
					return fmt.Errorf("%s:%d: %w", args[0], line, err)
				}
				reqs = append(reqs, req.WithTruncation(opts.trunc))
			}
			if err := sc.Err(); err != nil {
				return err
			}

			resps := make([]qseries.ToolResponse, len(reqs))
			g := new(errgroup.Group)
			g.SetLimit(opts.jobs)
			for i, req := range reqs {
				i, req := i, req
				g.Go(func() error {
					resps[i] = qseries.HandleToolCall(reg, req)
					if resps[i].Error != "" {
						log.WithField("tool", req.Tool).Warningf("request %d failed: %s", i, resps[i].Error)
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, r := range resps {
				if err := enc.Encode(r); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 4, "Maximum concurrent tool calls")
	return cmd
}

func newReplCmd(opts *options, reg *qseries.SymbolRegistry) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read `tool [json-params]` lines and print results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			interactive := term.IsTerminal(int(os.Stdin.Fd()))
			sc := bufio.NewScanner(cmd.InOrStdin())
			for {
				if interactive {
					fmt.Fprint(out, "qseries> ")
				}
				if !sc.Scan() {
					return sc.Err()
				}
				line := strings.TrimSpace(sc.Text())
				switch line {
				case "":
					continue
				case "quit", "exit":
					return nil
				}
				tool, params, _ := strings.Cut(line, " ")
				req, err := parseCall(tool, params)
				if err == nil {
					err = printResponse(out, qseries.HandleToolCall(reg, req.WithTruncation(opts.trunc)))
				}
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
				}
			}
		},
	}
}
