// Command gridsolve reads a textual grid, runs the solver, and prints the
// result. Input comes from a file argument or stdin; empty cells are '.'
// or '0', values are 1-9 then A.. for larger alphabets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"svw.info/gridsolve/internal/domain"
	"svw.info/gridsolve/internal/grid"
	"svw.info/gridsolve/internal/ports"
	"svw.info/gridsolve/internal/solver"
)

func main() {
	boxRows := flag.Int("box-rows", 3, "rows per box")
	boxCols := flag.Int("box-cols", 3, "columns per box")
	solverKind := flag.String("solver", "propagation", "solver to use: propagation|backtrack|dlx|parallel")
	workers := flag.Int("workers", 0, "parallel solver workers (0 = NumCPU)")
	timeout := flag.Duration("timeout", 30*time.Second, "solve time budget")
	compact := flag.Bool("compact", false, "print the solution as a single line")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	input, err := readInput(flag.Arg(0))
	if err != nil {
		logger.Error("read input", "err", err)
		os.Exit(2)
	}

	geo := domain.Geometry{BoxRows: *boxRows, BoxCols: *boxCols}
	b, err := domain.ParseBoard(geo, input)
	if err != nil {
		logger.Error("parse grid", "err", err)
		os.Exit(2)
	}

	s := pickSolver(*solverKind, *workers)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	out, st, err := s.Solve(ctx, b)
	if err != nil {
		switch {
		case errors.Is(err, grid.ErrInvalidPuzzle):
			logger.Error("invalid puzzle", "err", err)
		case errors.Is(err, grid.ErrUnsatisfiable):
			logger.Error("no solution exists")
		default:
			logger.Error("solve failed", "err", err)
		}
		os.Exit(1)
	}

	if *compact {
		fmt.Println(out.String())
	} else {
		fmt.Print(out.Format())
	}
	logger.Info("solved", "nodes", st.Nodes, "dur", st.Duration.Round(time.Microsecond))
}

func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func pickSolver(kind string, workers int) ports.Solver {
	switch kind {
	case "backtrack", "backtracking":
		return solver.NewBacktrackingSolver()
	case "dlx":
		return solver.NewDLXSolver()
	case "parallel":
		return solver.NewParallelSolver(workers)
	default:
		return solver.NewPropagationSolver()
	}
}
