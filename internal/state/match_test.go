package state_test

import (
	"context"
	"testing"

	"github.com/onehive/hive/internal/hex"
	. "github.com/onehive/hive/internal/state"
	. "github.com/onehive/hive/internal/state/statetest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnCounterAdvancesOnStartingPlayerReturn(t *testing.T) {
	m := NewMatch("Ada", "Grace")
	require.Equal(t, PlayerFirst, m.ActivePlayer())
	require.Equal(t, 0, m.Turn())
	require.Equal(t, "Ada", m.PlayerName(PlayerFirst))

	// The starting player acting doesn't advance the counter, control coming
	// back to them does: one increment per full round.
	require.NoError(t, m.ApplyPlacement(QUEEN, hex.Coord{0, 0}))
	assert.Equal(t, 0, m.Turn())
	assert.Equal(t, PlayerSecond, m.ActivePlayer())

	require.NoError(t, m.ApplyPlacement(QUEEN, hex.Coord{1, 0}))
	assert.Equal(t, 1, m.Turn())
	assert.Equal(t, PlayerFirst, m.ActivePlayer())
}

func TestTurnCounterAsymmetryWhenSecondStarts(t *testing.T) {
	// The same asymmetry holds with the second player starting: the counter
	// advances when control returns to them, not to the first player.
	m := NewMatchStartedBy(PlayerSecond, "", "")
	require.Equal(t, PlayerSecond, m.ActivePlayer())

	require.NoError(t, m.ApplyPlacement(QUEEN, hex.Coord{0, 0}))
	assert.Equal(t, 0, m.Turn())
	assert.Equal(t, PlayerFirst, m.ActivePlayer())

	require.NoError(t, m.ApplyPlacement(QUEEN, hex.Coord{1, 0}))
	assert.Equal(t, 1, m.Turn())
	assert.Equal(t, PlayerSecond, m.ActivePlayer())
}

// deadlineScript brings the first player to turn 4 with their queen still in
// reserve: two chains growing away from each other along the q axis.
func deadlineScript() []Step {
	return []Step{
		PlaceStep(ANT, hex.Coord{0, 0}),
		PlaceStep(QUEEN, hex.Coord{1, 0}),
		PlaceStep(ANT, hex.Coord{-1, 0}),
		PlaceStep(ANT, hex.Coord{2, 0}),
		PlaceStep(ANT, hex.Coord{-2, 0}),
		PlaceStep(ANT, hex.Coord{3, 0}),
		PlaceStep(GRASSHOPPER, hex.Coord{-3, 0}),
		PlaceStep(ANT, hex.Coord{4, 0}),
	}
}

func TestQueenDeadline(t *testing.T) {
	m, err := BuildMatch(deadlineScript())
	require.NoError(t, err)
	require.Equal(t, 4, m.Turn())
	require.Equal(t, PlayerFirst, m.ActivePlayer())
	require.True(t, m.MustPlaceQueen())

	// Every non-queen selection yields an empty destination set.
	for _, kind := range Pieces {
		if kind == QUEEN {
			continue
		}
		destinations, err := m.LegalDestinations(PlaceSelection(kind))
		require.NoError(t, err)
		assert.Emptyf(t, destinations, "placement of %s at the queen deadline", kind)
	}
	for _, origin := range []hex.Coord{{0, 0}, {-1, 0}, {-2, 0}, {-3, 0}} {
		destinations, err := m.LegalDestinations(MoveSelection(origin))
		require.NoError(t, err)
		assert.Emptyf(t, destinations, "move of the piece at %s at the queen deadline", origin)
	}

	// Applying a non-queen placement or any move is rejected in kind.
	err = m.ApplyPlacement(GRASSHOPPER, hex.Coord{-4, 0})
	require.ErrorIs(t, err, ErrQueenNotYetPlaced)
	err = m.ApplyMove(hex.Coord{-3, 0}, hex.Coord{-3, 1})
	require.ErrorIs(t, err, ErrQueenNotYetPlaced)
	assert.Equal(t, 4, m.Turn())

	// The queen itself places normally and the match resumes.
	destinations, err := m.LegalDestinations(PlaceSelection(QUEEN))
	require.NoError(t, err)
	require.True(t, destinations.Has(hex.Coord{-4, 0}))
	require.NoError(t, m.ApplyPlacement(QUEEN, hex.Coord{-4, 0}))
	assert.Equal(t, PlayerSecond, m.ActivePlayer())
}

func TestMovesRequireQueenOnBoard(t *testing.T) {
	m, err := BuildMatch([]Step{
		PlaceStep(ANT, hex.Coord{0, 0}),
		PlaceStep(QUEEN, hex.Coord{1, 0}),
	})
	require.NoError(t, err)

	// First player's queen is still in reserve: their ant cannot move.
	destinations, err := m.LegalDestinations(MoveSelection(hex.Coord{0, 0}))
	require.NoError(t, err)
	assert.Empty(t, destinations)
	err = m.ApplyMove(hex.Coord{0, 0}, hex.Coord{0, 1})
	require.ErrorIs(t, err, ErrQueenNotYetPlaced)

	// Once placed, the ant is free to crawl.
	require.NoError(t, m.ApplyPlacement(QUEEN, hex.Coord{-1, 0}))
	require.NoError(t, m.ApplyMove(hex.Coord{1, 0}, hex.Coord{1, -1}))
	assert.True(t, IsHiveConnected(m.Board()))
}

func TestSelectionViolations(t *testing.T) {
	m, err := BuildMatch([]Step{
		PlaceStep(QUEEN, hex.Coord{0, 0}),
		PlaceStep(QUEEN, hex.Coord{1, 0}),
	})
	require.NoError(t, err)

	// Selecting an empty cell or the opponent's piece.
	_, err = m.LegalDestinations(MoveSelection(hex.Coord{5, 5}))
	require.ErrorIs(t, err, ErrWrongPlayerOrTurn)
	_, err = m.LegalDestinations(MoveSelection(hex.Coord{1, 0}))
	require.ErrorIs(t, err, ErrWrongPlayerOrTurn)
	err = m.ApplyMove(hex.Coord{1, 0}, hex.Coord{1, -1})
	require.ErrorIs(t, err, ErrWrongPlayerOrTurn)

	// A destination outside the piece's legal set.
	err = m.ApplyMove(hex.Coord{0, 0}, hex.Coord{4, 4})
	require.ErrorIs(t, err, ErrIllegalDestination)
	err = m.ApplyPlacement(ANT, hex.Coord{2, 0})
	require.ErrorIs(t, err, ErrIllegalDestination)

	// An exhausted reserve slot has an empty legal set and rejects the apply.
	destinations, err := m.LegalDestinations(PlaceSelection(QUEEN))
	require.NoError(t, err)
	assert.Empty(t, destinations)
	err = m.ApplyPlacement(QUEEN, hex.Coord{-1, 0})
	require.ErrorIs(t, err, ErrIllegalDestination)

	// Rejected actions left the match untouched.
	assert.Equal(t, PlayerFirst, m.ActivePlayer())
	assert.Equal(t, 1, m.Turn())
	assert.Equal(t, 2, len(m.Snapshot()))
}

// surroundScript surrounds the second player's queen at (1, 0) with its 6th
// neighbour arriving on the last placement.
func surroundScript() []Step {
	return []Step{
		PlaceStep(ANT, hex.Coord{0, 0}),
		PlaceStep(QUEEN, hex.Coord{1, 0}),
		PlaceStep(QUEEN, hex.Coord{1, -1}),
		PlaceStep(ANT, hex.Coord{2, 0}),
		PlaceStep(ANT, hex.Coord{2, -1}),
		PlaceStep(SPIDER, hex.Coord{3, 0}),
		PlaceStep(ANT, hex.Coord{0, 1}),
		PlaceStep(GRASSHOPPER, hex.Coord{4, 0}),
		PlaceStep(GRASSHOPPER, hex.Coord{1, 1}),
	}
}

func TestWinBySurroundingQueen(t *testing.T) {
	m, err := BuildMatch(surroundScript()[:8])
	require.NoError(t, err)
	require.Equal(t, StatusRunning, m.CurrentStatus())

	// The 6th neighbour flips the status on the same action's evaluation.
	require.NoError(t, m.ApplyPlacement(GRASSHOPPER, hex.Coord{1, 1}))
	require.Equal(t, StatusFirstWon, m.CurrentStatus())
	assert.Equal(t, PlayerFirst, m.CurrentStatus().Winner())
	assert.Contains(t, m.Message(), m.PlayerName(PlayerFirst))

	// Terminal freeze: every action and selection is rejected.
	err = m.ApplyPlacement(ANT, hex.Coord{0, -1})
	require.ErrorIs(t, err, ErrGameAlreadyTerminal)
	err = m.ApplyMove(hex.Coord{0, 0}, hex.Coord{0, -1})
	require.ErrorIs(t, err, ErrGameAlreadyTerminal)
	_, err = m.LegalDestinations(PlaceSelection(ANT))
	require.ErrorIs(t, err, ErrGameAlreadyTerminal)

	hints, err := m.DestinationHints(context.Background())
	require.NoError(t, err)
	assert.Empty(t, hints)
}

func TestDrawByDoubleSurround(t *testing.T) {
	// Queens on adjacent cells share two neighbours. Everything but one of
	// the shared cells gets filled, then the last placement closes both rings
	// at once.
	m, err := BuildMatch([]Step{
		PlaceStep(QUEEN, hex.Coord{0, 0}),
		PlaceStep(QUEEN, hex.Coord{1, 0}),
		PlaceStep(ANT, hex.Coord{0, -1}),
		PlaceStep(ANT, hex.Coord{2, -1}),
		PlaceStep(ANT, hex.Coord{-1, 0}),
		PlaceStep(ANT, hex.Coord{2, 0}),
		PlaceStep(ANT, hex.Coord{-1, 1}),
		PlaceStep(SPIDER, hex.Coord{1, 1}),
		PlaceStep(BEETLE, hex.Coord{1, -1}),
	})
	require.NoError(t, err)
	require.Equal(t, StatusRunning, m.CurrentStatus())

	require.NoError(t, m.ApplyPlacement(SPIDER, hex.Coord{0, 1}))
	require.Equal(t, StatusDraw, m.CurrentStatus())
	assert.Equal(t, PlayerInvalid, m.CurrentStatus().Winner())
	assert.Equal(t, DrawMessage, m.Message())
}

func TestCoveredQueenInvisibleToWinScan(t *testing.T) {
	// The first player's queen has 5 occupied neighbours and a beetle on top.
	// The 6th neighbour arriving must not end the match: a covered queen isn't
	// visible to the surround scan.
	m, err := BuildMatch([]Step{
		PlaceStep(QUEEN, hex.Coord{0, 0}),
		PlaceStep(QUEEN, hex.Coord{1, 0}),
		PlaceStep(ANT, hex.Coord{0, -1}),
		PlaceStep(BEETLE, hex.Coord{2, -1}),
		PlaceStep(ANT, hex.Coord{-1, 0}),
		MoveStep(hex.Coord{2, -1}, hex.Coord{1, -1}),
		PlaceStep(ANT, hex.Coord{-1, 1}),
		MoveStep(hex.Coord{1, -1}, hex.Coord{0, 0}),
		PlaceStep(SPIDER, hex.Coord{-2, 1}),
		PlaceStep(ANT, hex.Coord{0, 1}),
		PlaceStep(GRASSHOPPER, hex.Coord{-2, 0}),
	})
	require.NoError(t, err)

	_, piece, stacked := m.Board().PieceAt(hex.Coord{0, 0})
	require.Equal(t, BEETLE, piece)
	require.True(t, stacked)

	// Second player closes the ring around (0, 0): 6 occupied neighbours, but
	// the visible piece there is their own beetle.
	require.NoError(t, m.ApplyPlacement(ANT, hex.Coord{1, -1}))
	assert.Equal(t, 6, len(m.Board().OccupiedNeighbours(hex.Coord{0, 0})))
	assert.Equal(t, StatusRunning, m.CurrentStatus())
}

func TestOneHiveInvariantAcrossMatch(t *testing.T) {
	m := NewMatch("", "")
	script := []Step{
		PlaceStep(QUEEN, hex.Coord{0, 0}),
		PlaceStep(QUEEN, hex.Coord{1, 0}),
		PlaceStep(ANT, hex.Coord{-1, 0}),
		PlaceStep(BEETLE, hex.Coord{2, 0}),
		MoveStep(hex.Coord{-1, 0}, hex.Coord{2, -1}),
		MoveStep(hex.Coord{2, 0}, hex.Coord{1, 0}),
		MoveStep(hex.Coord{2, -1}, hex.Coord{-1, 1}),
		MoveStep(hex.Coord{1, 0}, hex.Coord{0, 0}),
	}
	for ii, s := range script {
		var err error
		if s.Place {
			err = m.ApplyPlacement(s.Piece, s.To)
		} else {
			err = m.ApplyMove(s.From, s.To)
		}
		require.NoErrorf(t, err, "script step #%d", ii)
		assert.Truef(t, IsHiveConnected(m.Board()), "hive split after step #%d", ii)
		assert.Truef(t, RecomputeFrontier(m.Board()).Equal(m.Board().Frontier()),
			"frontier diverged after step #%d", ii)
	}
}

func TestSnapshotShowsCoveredPieces(t *testing.T) {
	m, err := BuildMatch([]Step{
		PlaceStep(QUEEN, hex.Coord{0, 0}),
		PlaceStep(QUEEN, hex.Coord{1, 0}),
		PlaceStep(BEETLE, hex.Coord{-1, 0}),
		PlaceStep(ANT, hex.Coord{2, 0}),
		MoveStep(hex.Coord{-1, 0}, hex.Coord{0, 0}),
	})
	require.NoError(t, err)

	snap := m.Snapshot()
	cell, found := snap[hex.Coord{0, 0}]
	require.True(t, found)
	assert.Equal(t, BEETLE, cell.Piece)
	assert.Equal(t, PlayerFirst, cell.Owner)
	require.NotNil(t, cell.Covered)
	assert.Equal(t, QUEEN, cell.Covered.Piece)
	assert.Equal(t, PlayerFirst, cell.Covered.Owner)

	// The vacated cell is gone from the snapshot and single pieces carry
	// nothing.
	_, found = snap[hex.Coord{-1, 0}]
	assert.False(t, found)
	assert.Nil(t, snap[hex.Coord{1, 0}].Covered)

	// The snapshot is detached: later actions don't leak into it.
	require.NoError(t, m.ApplyMove(hex.Coord{2, 0}, hex.Coord{2, -1}))
	_, found = snap[hex.Coord{2, 0}]
	assert.True(t, found)
}

func TestDestinationHintsMatchSequentialQueries(t *testing.T) {
	m, err := BuildMatch(deadlineScript()[:6])
	require.NoError(t, err)

	hints, err := m.DestinationHints(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, hints)

	for sel, want := range hints {
		got, err := m.LegalDestinations(sel)
		require.NoErrorf(t, err, "selection %s", sel)
		assert.Truef(t, want.Equal(got), "hint for %s diverges from the sequential query", sel)
	}

	// Every selectable piece of the active player is covered: one entry per
	// reserve type plus one per piece on the board.
	expected := 0
	for _, kind := range Pieces {
		if m.Board().Available(m.ActivePlayer(), kind) > 0 {
			expected++
		}
	}
	for c := range m.Board().OccupiedPositionsIter() {
		owner, _, _ := m.Board().PieceAt(c)
		if owner == m.ActivePlayer() {
			expected++
		}
	}
	assert.Equal(t, expected, len(hints))
}

func TestDestinationHintsHonorCancellation(t *testing.T) {
	m, err := BuildMatch(deadlineScript()[:4])
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.DestinationHints(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
