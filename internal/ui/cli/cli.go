// Package cli implements the terminal front-end of the game. It is purely a
// consumer of the engine's public interface: it renders snapshots, parses
// typed commands into placement/move selections and reports rule violations,
// never deciding legality itself.
package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/onehive/hive/internal/generics"
	"github.com/onehive/hive/internal/hex"
	. "github.com/onehive/hive/internal/state"
	"github.com/pkg/errors"
	"golang.org/x/term"
	"k8s.io/klog/v2"
)

const (
	// LinesPerRow and CharsPerColumn set the size of one rendered hexagon.
	LinesPerRow    = 4
	CharsPerColumn = 9
)

var ansiFilter = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// displayWidth of s, with its color/control sequences removed.
func displayWidth(s string) int {
	return len(ansiFilter.ReplaceAllString(s, ""))
}

func printCentered(block string) {
	lines := strings.Split(block, "\n")
	terminalWidth, _, _ := term.GetSize(int(os.Stdout.Fd()))
	blockWidth := 0
	for _, line := range lines {
		if w := displayWidth(line); w > blockWidth {
			blockWidth = w
		}
	}
	indent := (terminalWidth - blockWidth) / 2
	if indent < 0 {
		indent = 0
	}
	for _, line := range lines {
		if len(line) == 0 {
			fmt.Println()
			continue
		}
		fmt.Printf("%s%s\n", strings.Repeat(" ", indent), line)
	}
}

func centerString(s string, fit int) string {
	if len(s) >= fit {
		return s
	}
	marginLeft := (fit - len(s)) / 2
	return strings.Repeat(" ", marginLeft) + s + strings.Repeat(" ", fit-len(s)-marginLeft)
}

// UI drives one interactive match on a terminal.
type UI struct {
	match              *Match
	color, clearScreen bool
	hints              bool
	reader             *bufio.Reader

	playerStyles  [NumPlayers]lipgloss.Style
	reminderStyle lipgloss.Style
	drawStyle     lipgloss.Style
}

var (
	placementParser = regexp.MustCompile(`^\s*(\w)[\s,]+(-?\d+)[\s,]+(-?\d+)[\s,]*$`)
	moveParser      = regexp.MustCompile(`^\s*(-?\d+)[\s,]+(-?\d+)[\s,]+(-?\d+)[\s,]+(-?\d+)[\s,]*$`)
)

// New creates a UI for the given match. With color off every style renders as
// plain text; clearScreen redraws from a blank terminal per action; hints
// prints the legal destinations of every selectable piece before each prompt.
func New(match *Match, color, clearScreen, hints bool) *UI {
	ui := &UI{
		match:       match,
		color:       color,
		clearScreen: clearScreen,
		hints:       hints,
		reader:      bufio.NewReader(os.Stdin),
	}
	if color {
		ui.playerStyles[PlayerFirst] = lipgloss.NewStyle().
			Background(lipgloss.Color("1")).Foreground(lipgloss.Color("0")).Bold(true)
		ui.playerStyles[PlayerSecond] = lipgloss.NewStyle().
			Background(lipgloss.Color("2")).Foreground(lipgloss.Color("0")).Bold(true)
		ui.reminderStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("3")).Foreground(lipgloss.Color("0")).Padding(0, 1)
		ui.drawStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("13")).Foreground(lipgloss.Color("0")).Padding(1, 2)
	} else {
		for ii := range ui.playerStyles {
			ui.playerStyles[ii] = lipgloss.NewStyle()
		}
		ui.reminderStyle = lipgloss.NewStyle()
		ui.drawStyle = lipgloss.NewStyle()
	}
	return ui
}

// Run plays the match until it finishes, the player quits or ctx is
// cancelled.
func (ui *UI) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ui.Render()
		if ui.match.CurrentStatus().Finished() {
			ui.PrintResult()
			return nil
		}
		if ui.hints {
			if err := ui.printHints(ctx); err != nil {
				return err
			}
		}
		quit, err := ui.runNextAction()
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// runNextAction prompts until one command applies cleanly or the player
// quits. Rule violations are reported and the prompt repeats.
func (ui *UI) runNextAction() (quit bool, err error) {
	for {
		fmt.Printf("    %s action (piece q r | q r q r | quit) > ", ui.playerLabel(ui.match.ActivePlayer()))
		text, err := ui.reader.ReadString('\n')
		if err == io.EOF {
			return true, nil
		}
		if err != nil {
			return false, errors.Wrapf(err, "failed to read command")
		}
		text = strings.TrimSpace(text)
		switch strings.ToLower(text) {
		case "quit", "exit", "q":
			return true, nil
		case "hints":
			ui.hints = !ui.hints
			return false, nil
		}
		if ui.applyCommand(text) {
			return false, nil
		}
	}
}

// applyCommand parses one command line and applies it to the match. It
// returns whether the match state changed.
func (ui *UI) applyCommand(text string) bool {
	if matches := placementParser.FindStringSubmatch(strings.ToUpper(text)); len(matches) == 4 {
		kind, ok := LetterToPiece[matches[1]]
		if !ok {
			fmt.Printf("    * Sorry insect %q unknown, choose one of 'A', 'B', 'G', 'Q', 'S'\n", matches[1])
			return false
		}
		dst, ok := ui.parseCoord(matches[2], matches[3])
		if !ok {
			return false
		}
		if err := ui.match.ApplyPlacement(kind, dst); err != nil {
			ui.reportViolation(err)
			return false
		}
		return true
	}
	if matches := moveParser.FindStringSubmatch(text); len(matches) == 5 {
		origin, ok := ui.parseCoord(matches[1], matches[2])
		if !ok {
			return false
		}
		dst, ok := ui.parseCoord(matches[3], matches[4])
		if !ok {
			return false
		}
		if err := ui.match.ApplyMove(origin, dst); err != nil {
			ui.reportViolation(err)
			return false
		}
		return true
	}
	fmt.Printf("    * Failed to parse your input %q, please try again.\n", text)
	return false
}

func (ui *UI) parseCoord(qText, rText string) (hex.Coord, bool) {
	var c hex.Coord
	for ii, text := range []string{qText, rText} {
		value, err := strconv.ParseInt(text, 10, 8)
		if err != nil {
			fmt.Printf("    * Failed to parse location %q\n", text)
			return c, false
		}
		c[ii] = int8(value)
	}
	return c, true
}

// reportViolation explains a rejected action to the player.
func (ui *UI) reportViolation(err error) {
	klog.Errorf("rejected action: %v", err)
	switch {
	case errors.Is(err, ErrQueenNotYetPlaced):
		fmt.Printf("    * %v.\n", err)
		fmt.Println("    * One can only start moving pieces once the Queen is on the board.")
	case errors.Is(err, ErrWrongPlayerOrTurn),
		errors.Is(err, ErrIllegalDestination),
		errors.Is(err, ErrGameAlreadyTerminal):
		fmt.Printf("    * %v.\n", err)
	default:
		fmt.Printf("    * Unexpected error: %v.\n", err)
	}
}

// Render prints the full view: round banner, board, reserves and the queen
// reminder when the deadline hits.
func (ui *UI) Render() {
	if ui.clearScreen {
		fmt.Print("\033c")
	}
	fmt.Printf("\n%s round, %s to play\n\n",
		humanize.Ordinal(ui.match.Turn()+1), ui.playerLabel(ui.match.ActivePlayer()))
	ui.printBoard()
	fmt.Println()
	ui.printReserves()
	if ui.match.MustPlaceQueen() {
		fmt.Println()
		printCentered(ui.reminderStyle.Render(QueenReminderMessage))
	}
	fmt.Println()
}

// PrintResult announces how the match ended.
func (ui *UI) PrintResult() {
	status := ui.match.CurrentStatus()
	fmt.Println()
	if status == StatusDraw {
		printCentered(ui.drawStyle.Render(ui.match.Message()))
	} else {
		winner := status.Winner()
		printCentered(fmt.Sprintf("*** %s WINS!! Congratulations! ***",
			ui.playerLabel(winner)))
	}
	fmt.Println()
}

func (ui *UI) playerLabel(player PlayerNum) string {
	return ui.playerStyles[player].Render(" " + ui.match.PlayerName(player) + " ")
}

func (ui *UI) printReserves() {
	for _, player := range []PlayerNum{PlayerFirst, PlayerSecond} {
		remaining := ui.match.Remaining(player)
		parts := make([]string, 0, NumPieceTypes)
		for _, kind := range Pieces {
			if count := remaining[kind-1]; count > 0 {
				parts = append(parts, fmt.Sprintf("%s-%d", kind, count))
			}
		}
		fmt.Printf("  %s off-board: [%s]\n", ui.playerLabel(player), strings.Join(parts, ", "))
	}
}

// printHints lists the legal destinations of every selectable piece of the
// active player, computed concurrently by the engine.
func (ui *UI) printHints(ctx context.Context) error {
	hints, err := ui.match.DestinationHints(ctx)
	if err != nil {
		return err
	}
	placements := make([]string, 0, len(hints))
	moves := make([]string, 0, len(hints))
	for sel, destinations := range hints {
		if len(destinations) == 0 {
			continue
		}
		line := fmt.Sprintf("  - %s -> %s", sel, coordList(destinations))
		if sel.FromReserve {
			placements = append(placements, line)
		} else {
			moves = append(moves, line)
		}
	}
	fmt.Println("- Available actions:")
	for _, lines := range [][]string{placements, moves} {
		slices.Sort(lines)
		for _, line := range lines {
			fmt.Println(line)
		}
	}
	if len(placements)+len(moves) == 0 {
		fmt.Println("  - none: every piece is blocked this turn")
	}
	fmt.Println()
	return nil
}

func coordList(destinations generics.Set[hex.Coord]) string {
	coords := make([]hex.Coord, 0, len(destinations))
	for c := range destinations {
		coords = append(coords, c)
	}
	hex.Sort(coords)
	return strings.Join(generics.SliceMap(coords, hex.Coord.String), ", ")
}

// printBoard renders the occupied area of the hive plus one cell of margin,
// centered on the terminal.
func (ui *UI) printBoard() {
	snap := ui.match.Snapshot()
	minX, maxX, minY, maxY := displayLimits(snap)
	var buf bytes.Buffer
	for y := minY; y <= maxY; y++ {
		for line := int8(0); line < LinesPerRow; line++ {
			ui.printBoardLine(&buf, snap, y, line, minX, maxX)
		}
	}
	printCentered(buf.String())
}

// displayLimits returns the display-coordinate bounding box of the snapshot,
// grown by one cell of margin. An empty snapshot centers on the seed cell.
func displayLimits(snap Snapshot) (minX, maxX, minY, maxY int8) {
	first := true
	for c := range snap {
		d := c.ToDisplay()
		if first {
			minX, maxX, minY, maxY = d.Q(), d.Q(), d.R(), d.R()
			first = false
			continue
		}
		minX, maxX = min(minX, d.Q()), max(maxX, d.Q())
		minY, maxY = min(minY, d.R()), max(maxY, d.R())
	}
	return minX - 1, maxX + 1, minY - 1, maxY + 1
}

func (ui *UI) printBoardLine(w io.Writer, snap Snapshot, y, line, minX, maxX int8) {
	for x := minX; x <= maxX+1; x++ {
		adjY := y
		adjLine := line
		if x%2 != 0 {
			// Odd display columns are shifted down half a hexagon.
			adjLine = (line - LinesPerRow/2 + LinesPerRow) % LinesPerRow
			if adjLine >= 2 {
				adjY -= 1
			}
		}
		pos := hex.Coord{x, adjY}.FromDisplay()
		ui.printStrip(w, snap, pos, adjLine, x == maxX+1)
	}
	_, _ = fmt.Fprintln(w)
}

// printStrip writes one line of one hexagon: the two slanted edge lines, the
// coordinate line and the piece line.
func (ui *UI) printStrip(w io.Writer, snap Snapshot, pos hex.Coord, line int8, lastX bool) {
	switch line {
	case 0:
		_, _ = fmt.Fprint(w, " /")
		if !lastX {
			_, _ = fmt.Fprint(w, strings.Repeat(" ", CharsPerColumn-2))
		}
	case 1:
		_, _ = fmt.Fprint(w, "/")
		if !lastX {
			coord := fmt.Sprintf("%d,%d", pos.Q(), pos.R())
			_, _ = fmt.Fprint(w, " "+centerString(coord, CharsPerColumn-2))
		}
	case 2:
		_, _ = fmt.Fprint(w, "\\")
		if !lastX {
			cell, found := snap[pos]
			if !found {
				_, _ = fmt.Fprint(w, strings.Repeat(" ", CharsPerColumn-1))
			} else {
				_, _ = fmt.Fprint(w, " "+ui.renderCell(cell))
			}
		}
	case 3:
		_, _ = fmt.Fprint(w, " \\")
		if !lastX {
			_, _ = fmt.Fprint(w, strings.Repeat("_", CharsPerColumn-2))
		}
	}
}

// renderCell shows the visible piece letter, with the covered piece in
// parentheses when a beetle sits on top: "B(Q)".
func (ui *UI) renderCell(cell SnapshotCell) string {
	text := PieceLetters[cell.Piece]
	if cell.Covered != nil {
		text += "(" + PieceLetters[cell.Covered.Piece] + ")"
	}
	return ui.pieceStyle(cell.Owner, cell.Color).Render(centerString(text, CharsPerColumn-2))
}

// pieceStyle combines the owner's background with the bug type's fixed color.
func (ui *UI) pieceStyle(owner PlayerNum, pieceColor string) lipgloss.Style {
	if !ui.color {
		return lipgloss.NewStyle()
	}
	return ui.playerStyles[owner].Foreground(lipgloss.Color(pieceColor))
}
