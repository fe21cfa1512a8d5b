package solver

import (
	"context"
	"errors"
	"testing"
	"time"

	"svw.info/gridsolve/internal/domain"
	"svw.info/gridsolve/internal/grid"
	"svw.info/gridsolve/internal/ports"
	"svw.info/gridsolve/internal/validator"
)

// A classic, solvable puzzle with a unique solution (0 = empty).
const samplePuzzle = "" +
	"530070000" +
	"600195000" +
	"098000060" +
	"800060003" +
	"400803001" +
	"700020006" +
	"060000280" +
	"000419005" +
	"000080079"

const sampleSolution = "" +
	"534678912" +
	"672195348" +
	"198342567" +
	"859761423" +
	"426853791" +
	"713924856" +
	"961537284" +
	"287419635" +
	"345286179"

func sampleBoard(t *testing.T) *domain.Board {
	t.Helper()
	b, err := domain.ParseBoard(domain.Classic(), samplePuzzle)
	if err != nil {
		t.Fatalf("parse sample: %v", err)
	}
	return b
}

func allSolvers() map[string]ports.Solver {
	return map[string]ports.Solver{
		"propagation": NewPropagationSolver(),
		"backtrack":   NewBacktrackingSolver(),
		"dlx":         NewDLXSolver(),
		"parallel":    NewParallelSolver(2),
	}
}

func TestSolversAgreeOnClassicPuzzle(t *testing.T) {
	for name, s := range allSolvers() {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			out, st, err := s.Solve(ctx, sampleBoard(t))
			if err != nil {
				t.Fatalf("Solve failed: %v (nodes=%d dur=%v)", err, st.Nodes, st.Duration)
			}
			if got := out.String(); got != sampleSolution {
				t.Fatalf("wrong solution:\n got %s\nwant %s", got, sampleSolution)
			}
			ok, conf, err := validator.New().Validate(ctx, out)
			if err != nil || !ok {
				t.Fatalf("invalid solution: err=%v conflicts=%v", err, conf)
			}
			t.Logf("solved in %v, nodes=%d", st.Duration, st.Nodes)
		})
	}
}

func TestSolversRejectInvalidPuzzle(t *testing.T) {
	b := sampleBoard(t)
	b.Values[1] = 5 // second 5 in row 0
	for name, s := range allSolvers() {
		t.Run(name, func(t *testing.T) {
			_, _, err := s.Solve(context.Background(), b)
			if !errors.Is(err, grid.ErrInvalidPuzzle) {
				t.Fatalf("expected ErrInvalidPuzzle, got %v", err)
			}
		})
	}
}

func TestSolversReportUnsatisfiable(t *testing.T) {
	// Cell (0,0) sees 1,2 in its row, 3 in its column, 4 in its box.
	b, err := domain.ParseBoard(domain.Geometry{BoxRows: 2, BoxCols: 2}, "..12"+".4.."+"3..."+"....")
	if err != nil {
		t.Fatal(err)
	}
	for name, s := range allSolvers() {
		t.Run(name, func(t *testing.T) {
			_, _, err := s.Solve(context.Background(), b)
			if !errors.Is(err, grid.ErrUnsatisfiable) {
				t.Fatalf("expected ErrUnsatisfiable, got %v", err)
			}
		})
	}
}

func TestSolversSolve4x4(t *testing.T) {
	b, err := domain.ParseBoard(domain.Geometry{BoxRows: 2, BoxCols: 2}, "1..."+"..2."+".3.."+"...4")
	if err != nil {
		t.Fatal(err)
	}
	for name, s := range allSolvers() {
		t.Run(name, func(t *testing.T) {
			out, _, err := s.Solve(context.Background(), b)
			if err != nil {
				t.Fatalf("Solve failed: %v", err)
			}
			if !out.Complete() {
				t.Fatalf("incomplete solution %q", out.String())
			}
			ok, conf, _ := validator.New().Validate(context.Background(), out)
			if !ok {
				t.Fatalf("conflicts: %v", conf)
			}
		})
	}
}

func TestUnique(t *testing.T) {
	empty := domain.NewBoard(domain.Classic())
	for name, s := range allSolvers() {
		t.Run(name, func(t *testing.T) {
			unique, _, err := s.Unique(context.Background(), sampleBoard(t))
			if err != nil {
				t.Fatalf("Unique failed: %v", err)
			}
			if !unique {
				t.Fatal("sample puzzle should have exactly one solution")
			}
			unique, _, err = s.Unique(context.Background(), empty)
			if err != nil {
				t.Fatalf("Unique on empty failed: %v", err)
			}
			if unique {
				t.Fatal("empty grid has many solutions")
			}
		})
	}
}

func TestSolveHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, s := range allSolvers() {
		t.Run(name, func(t *testing.T) {
			_, _, err := s.Solve(ctx, domain.NewBoard(domain.Classic()))
			if err == nil {
				t.Fatal("expected an error from a cancelled solve")
			}
			if errors.Is(err, grid.ErrInvalidPuzzle) {
				t.Fatalf("cancellation misreported as invalid input: %v", err)
			}
		})
	}
}

func TestSolverPreservesFixedFlags(t *testing.T) {
	b := sampleBoard(t)
	b.Fixed = make([]bool, len(b.Values))
	for i, v := range b.Values {
		b.Fixed[i] = v != 0
	}
	out, _, err := NewPropagationSolver().Solve(context.Background(), b)
	if err != nil {
		t.Fatal(err)
	}
	for i := range b.Fixed {
		if out.Fixed[i] != b.Fixed[i] {
			t.Fatalf("fixed flag lost at %d", i)
		}
	}
}
