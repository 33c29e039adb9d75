package run

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/skiff-wasm/skiff/cmd/skiff/config"
	"github.com/skiff-wasm/skiff/container"
	"github.com/skiff-wasm/skiff/exec"
	"github.com/skiff-wasm/skiff/ipint"
	"github.com/skiff-wasm/skiff/wasm"
	"github.com/skiff-wasm/skiff/wasm/code"
)

// tracer writes one line per executed instruction: the cursor pair and the
// mnemonic.
type tracer struct {
	w io.Writer
}

func (t *tracer) Instruction(pc, mc int, opcode byte) {
	fmt.Fprintf(t.w, "%06x %06x %s\n", pc, mc, code.Name(opcode))
}

func parseArg(t wasm.ValueType, s string) (interface{}, error) {
	switch t {
	case wasm.ValueTypeI32:
		v, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return nil, err
		}
		return int32(v), nil
	case wasm.ValueTypeI64:
		v, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return nil, err
		}
		return v, nil
	case wasm.ValueTypeF32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, err
		}
		return float32(v), nil
	case wasm.ValueTypeF64:
		return strconv.ParseFloat(s, 64)
	default:
		return nil, fmt.Errorf("unsupported parameter type %v", t)
	}
}

func Command() *cobra.Command {
	var configPath string
	var traceExec bool
	var maxDepth uint

	command := &cobra.Command{
		Use:   "run [path to bundle] [export] [args...]",
		Short: "Run a function exported by a bundle",
		Long:  "Run a function exported by a bundle, passing any remaining arguments as typed values",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New("expected a bundle path and an export name")
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if level, err := log.ParseLevel(cfg.Logging.Level); err == nil {
				log.SetLevel(level)
			}
			if cmd.Flags().Changed("max-depth") {
				cfg.Execution.MaxDepth = maxDepth
			}
			if traceExec {
				cfg.Execution.Trace = true
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			file, err := container.Decode(bufio.NewReader(f))
			if err != nil {
				return err
			}
			log.Debug("loaded bundle", "path", args[0], "functions", len(file.Functions))

			def, err := file.Definition(nil)
			if err != nil {
				return err
			}
			module := ipint.NewModule(def)

			fn, err := module.ExportedFunction(args[1])
			if err != nil {
				return err
			}
			sig := fn.GetSignature()
			if len(args)-2 != len(sig.ParamTypes) {
				return fmt.Errorf("%v expects %v arguments; got %v", args[1], len(sig.ParamTypes), len(args)-2)
			}

			callArgs := make([]interface{}, len(sig.ParamTypes))
			for i, t := range sig.ParamTypes {
				v, err := parseArg(t, args[i+2])
				if err != nil {
					return fmt.Errorf("argument %v: %w", i, err)
				}
				callArgs[i] = v
			}

			var thread exec.Thread
			if cfg.Execution.Trace {
				w := bufio.NewWriter(os.Stderr)
				defer w.Flush()
				thread = exec.NewTracingThread(&tracer{w: w}, cfg.Execution.MaxDepth)
			} else {
				thread = exec.NewThread(cfg.Execution.MaxDepth)
			}

			log.Debug("invoking export", "name", args[1], "signature", sig.String())
			returns, err := exec.Call(&thread, fn, callArgs...)
			if err != nil {
				return err
			}
			for _, r := range returns {
				fmt.Println(r)
			}
			return nil
		},
	}

	command.Flags().StringVar(&configPath, "config", "skiff.toml", "path to the execution configuration file")
	command.Flags().BoolVar(&traceExec, "trace", false, "trace each executed instruction to stderr")
	command.Flags().UintVar(&maxDepth, "max-depth", 0, "maximum call stack depth (0 for the configured default)")

	return command
}
