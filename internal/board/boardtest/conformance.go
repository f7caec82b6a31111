package boardtest

import (
	"errors"
	"strings"
	"testing"

	"github.com/discochess/gamefeatures/internal/board"
	"github.com/discochess/gamefeatures/internal/placement"
)

// QueenTrade is a game in which both queens are gone after ply 7.
const QueenTrade = "d4 e5 dxe5 d6 exd6 Qxd6 Qxd6 Bxd6 Nf3"

// RunConformance checks that boards from f behave like a rules engine.
func RunConformance(t *testing.T, f board.Factory) {
	t.Helper()

	t.Run("start position", func(t *testing.T) {
		b := f()
		if got := b.Placement(); got != placement.Start {
			t.Errorf("Placement() = %q, want %q", got, placement.Start)
		}
		for _, k := range []board.Kind{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen, board.King} {
			if !b.HasPieceKind(k) {
				t.Errorf("HasPieceKind(%s) = false at start", k)
			}
		}
	})

	t.Run("apply", func(t *testing.T) {
		b := f()
		if err := b.Apply("e4"); err != nil {
			t.Fatalf("Apply(e4) error = %v", err)
		}
		if got, want := b.Placement(), "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR"; got != want {
			t.Errorf("Placement() = %q, want %q", got, want)
		}
	})

	t.Run("castling", func(t *testing.T) {
		b := f()
		for _, san := range strings.Fields("e4 e5 Nf3 Nc6 Bc4 Bc5 0-0") {
			if err := b.Apply(san); err != nil {
				t.Fatalf("Apply(%s) error = %v", san, err)
			}
		}
		if got, want := b.Placement(), "r1bqk1nr/pppp1ppp/2n5/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQ1RK1"; got != want {
			t.Errorf("Placement() = %q, want %q", got, want)
		}
	})

	t.Run("queens traded", func(t *testing.T) {
		b := f()
		for i, san := range strings.Fields(QueenTrade)[:8] {
			if err := b.Apply(san); err != nil {
				t.Fatalf("ply %d Apply(%s) error = %v", i, san, err)
			}
		}
		if b.HasPieceKind(board.Queen) {
			t.Error("HasPieceKind(Queen) = true after both queens were captured")
		}
		if !b.HasPieceKind(board.Bishop) {
			t.Error("HasPieceKind(Bishop) = false")
		}
	})

	t.Run("illegal move", func(t *testing.T) {
		b := f()
		if err := b.Apply("e4"); err != nil {
			t.Fatalf("Apply(e4) error = %v", err)
		}
		err := b.Apply("e4")
		if !errors.Is(err, board.ErrIllegalMove) {
			t.Errorf("Apply(e4) twice error = %v, want ErrIllegalMove", err)
		}
	})
}
