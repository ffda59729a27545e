package state

import (
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/google/uuid"
	"github.com/onehive/hive/internal/generics"
	"github.com/onehive/hive/internal/hex"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// QueenTurnDeadline is the turn on which a player who still holds their queen
// in reserve may only place the queen.
const QueenTurnDeadline = 4

// Messages shown to players on the events they announce.
const (
	QueenReminderMessage = "!!! You must place Queen on this turn !!!"
	DrawMessage          = "!!! Game ended in draw !!!"
	winMessageFormat     = "!!! Player %s has won !!!"
)

// DefaultPlayerNames when the caller doesn't configure any.
var DefaultPlayerNames = [NumPlayers]string{"BLACK", "GRAY"}

// Player is one side of a match.
type Player struct {
	Name string
}

// Match drives one game between two players: the board plus the turn
// machine. All mutations go through ApplyPlacement and ApplyMove, which
// reject illegal actions with one of the Err* rule violations and leave the
// state untouched.
//
// A Match is not safe for concurrent mutation. Between mutations it may be
// queried concurrently, which DestinationHints relies on.
type Match struct {
	// ID tags the match in logs.
	ID uuid.UUID

	board    *Board
	players  [NumPlayers]Player
	turn     int
	active   PlayerNum
	starting PlayerNum
	status   GameStatus
	message  string
}

// NewMatch starts a match between the two named players, with the first
// player making the opening placement. Empty names fall back to
// DefaultPlayerNames.
func NewMatch(firstName, secondName string) *Match {
	return NewMatchStartedBy(PlayerFirst, firstName, secondName)
}

// NewMatchStartedBy starts a match where the given player makes the opening
// placement. The turn counter advances whenever control returns to the
// starting player.
func NewMatchStartedBy(starting PlayerNum, firstName, secondName string) *Match {
	if firstName == "" {
		firstName = DefaultPlayerNames[PlayerFirst]
	}
	if secondName == "" {
		secondName = DefaultPlayerNames[PlayerSecond]
	}
	m := &Match{
		ID:       uuid.New(),
		board:    NewBoard(),
		players:  [NumPlayers]Player{{Name: firstName}, {Name: secondName}},
		active:   starting,
		starting: starting,
	}
	klog.V(1).Infof("match %s: %q vs %q, %s starts", m.ID, firstName, secondName, starting)
	return m
}

// Board grants read access to the positional state. Callers must not mutate
// it directly, actions go through ApplyPlacement and ApplyMove.
func (m *Match) Board() *Board {
	return m.board
}

// Turn returns the current value of the turn counter. It starts at 0 and
// advances every time control returns to the starting player.
func (m *Match) Turn() int {
	return m.turn
}

// ActivePlayer returns the player expected to act next.
func (m *Match) ActivePlayer() PlayerNum {
	return m.active
}

// PlayerName returns the display name of the given player.
func (m *Match) PlayerName(player PlayerNum) string {
	return m.players[player].Name
}

// Remaining returns the reserve of the given player.
func (m *Match) Remaining(player PlayerNum) Availability {
	return m.board.Remaining(player)
}

// CurrentStatus returns the match status: running, won or drawn.
func (m *Match) CurrentStatus() GameStatus {
	return m.status
}

// Message returns the terminal announcement once the match is over, or empty
// while it runs.
func (m *Match) Message() string {
	return m.message
}

// MustPlaceQueen returns whether the active player has hit the queen
// deadline: on turn 4 with the queen still in reserve, placing it is the
// only legal action.
func (m *Match) MustPlaceQueen() bool {
	return m.turn == QueenTurnDeadline && !m.board.HasPlacedQueen(m.active)
}

// Selection identifies what the active player wants to act with: a piece
// type still in their reserve (FromReserve) or the visible piece at Origin.
type Selection struct {
	FromReserve bool
	Piece       PieceType
	Origin      hex.Coord
}

// PlaceSelection selects a piece type from the active player's reserve.
func PlaceSelection(kind PieceType) Selection {
	return Selection{FromReserve: true, Piece: kind}
}

// MoveSelection selects the visible piece at origin.
func MoveSelection(origin hex.Coord) Selection {
	return Selection{Origin: origin}
}

func (s Selection) String() string {
	if s.FromReserve {
		return fmt.Sprintf("place %s", s.Piece)
	}
	return fmt.Sprintf("move from %s", s.Origin)
}

// LegalDestinations returns the cells the given selection may act on this
// turn. Valid selections with nothing to do, a pinned piece, an exhausted
// reserve slot or a non-queen placement at the queen deadline, yield an empty
// set. Selecting an opponent's piece, an empty cell or acting on a finished
// match is an error.
func (m *Match) LegalDestinations(sel Selection) (generics.Set[hex.Coord], error) {
	if m.status.Finished() {
		return nil, errors.Wrapf(ErrGameAlreadyTerminal, "no actions left: %s", m.message)
	}
	if sel.FromReserve {
		return m.placementDestinations(sel.Piece), nil
	}
	return m.moveDestinations(sel.Origin)
}

func (m *Match) placementDestinations(kind PieceType) generics.Set[hex.Coord] {
	if !kind.Valid() {
		exceptions.Panicf("placement of invalid piece type %d", uint8(kind))
	}
	if m.board.Available(m.active, kind) == 0 {
		return generics.MakeSet[hex.Coord]()
	}
	if m.MustPlaceQueen() && kind != QUEEN {
		return generics.MakeSet[hex.Coord]()
	}
	return m.board.LegalPlacements(m.active, m.turn == 0)
}

func (m *Match) moveDestinations(origin hex.Coord) (generics.Set[hex.Coord], error) {
	tile, found := m.board.VisibleTile(origin)
	if !found {
		return nil, errors.Wrapf(ErrWrongPlayerOrTurn, "no piece at %s", origin)
	}
	if tile.Owner != m.active {
		return nil, errors.Wrapf(ErrWrongPlayerOrTurn, "%s at %s belongs to %s",
			tile.Kind, origin, m.PlayerName(tile.Owner))
	}
	if !m.board.HasPlacedQueen(m.active) {
		// Pieces are frozen until their queen is on the board.
		return generics.MakeSet[hex.Coord](), nil
	}
	return m.board.Destinations(origin), nil
}

// ApplyPlacement places a piece of the given type from the active player's
// reserve on cell dst, then passes the turn. On a rule violation the match
// is left untouched and the returned error matches one of the Err*
// sentinels with errors.Is.
func (m *Match) ApplyPlacement(kind PieceType, dst hex.Coord) error {
	if !kind.Valid() {
		exceptions.Panicf("placement of invalid piece type %d", uint8(kind))
	}
	if m.status.Finished() {
		return errors.Wrapf(ErrGameAlreadyTerminal, "cannot place %s: %s", kind, m.message)
	}
	if m.MustPlaceQueen() && kind != QUEEN {
		return errors.Wrapf(ErrQueenNotYetPlaced, "turn %d is %s's last chance to place the queen",
			m.turn, m.PlayerName(m.active))
	}
	if m.board.Available(m.active, kind) == 0 {
		return errors.Wrapf(ErrIllegalDestination, "%s has no %s left in reserve",
			m.PlayerName(m.active), kind)
	}
	if !m.board.LegalPlacements(m.active, m.turn == 0).Has(dst) {
		return errors.Wrapf(ErrIllegalDestination, "%s cannot be placed on %s", kind, dst)
	}
	m.board.Place(dst, m.active, kind)
	klog.V(1).Infof("match %s: %s places %s on %s", m.ID, m.PlayerName(m.active), kind, dst)
	m.concludeAction()
	return nil
}

// ApplyMove moves the active player's visible piece at origin to cell dst,
// then passes the turn. On a rule violation the match is left untouched and
// the returned error matches one of the Err* sentinels with errors.Is.
func (m *Match) ApplyMove(origin, dst hex.Coord) error {
	if m.status.Finished() {
		return errors.Wrapf(ErrGameAlreadyTerminal, "cannot move from %s: %s", origin, m.message)
	}
	tile, found := m.board.VisibleTile(origin)
	if !found {
		return errors.Wrapf(ErrWrongPlayerOrTurn, "no piece at %s", origin)
	}
	if tile.Owner != m.active {
		return errors.Wrapf(ErrWrongPlayerOrTurn, "%s at %s belongs to %s",
			tile.Kind, origin, m.PlayerName(tile.Owner))
	}
	if !m.board.HasPlacedQueen(m.active) {
		return errors.Wrapf(ErrQueenNotYetPlaced, "%s cannot move pieces before placing their queen",
			m.PlayerName(m.active))
	}
	if !m.board.Destinations(origin).Has(dst) {
		return errors.Wrapf(ErrIllegalDestination, "%s at %s cannot reach %s", tile.Kind, origin, dst)
	}
	m.board.Move(origin, dst)
	klog.V(1).Infof("match %s: %s moves %s from %s to %s", m.ID, m.PlayerName(m.active), tile.Kind, origin, dst)
	m.concludeAction()
	return nil
}

// concludeAction runs after every successful mutation: evaluate the end
// conditions and either freeze the match or pass the turn. The turn counter
// only advances when control comes back around to the starting player.
func (m *Match) concludeAction() {
	status := m.evaluateStatus()
	if status == StatusRunning {
		if m.active != m.starting {
			m.turn++
		}
		m.active = m.active.Opponent()
		return
	}
	m.status = status
	switch status {
	case StatusDraw:
		m.message = DrawMessage
	default:
		m.message = fmt.Sprintf(winMessageFormat, m.PlayerName(status.Winner()))
	}
	klog.V(1).Infof("match %s finished on turn %d: %s", m.ID, m.turn, m.message)
}

// evaluateStatus scans the board for surrounded queens. A queen covered by a
// beetle isn't visible and cannot trigger the end of the match.
func (m *Match) evaluateStatus() GameStatus {
	var surrounded [NumPlayers]bool
	for c, id := range m.board.cells {
		tile := m.board.tiles[id]
		if tile.Kind != QUEEN {
			continue
		}
		if m.board.countOccupiedNeighbours(c) == NumNeighbours {
			surrounded[tile.Owner] = true
		}
	}
	switch {
	case surrounded[PlayerFirst] && surrounded[PlayerSecond]:
		return StatusDraw
	case surrounded[PlayerFirst]:
		return StatusSecondWon
	case surrounded[PlayerSecond]:
		return StatusFirstWon
	}
	return StatusRunning
}
