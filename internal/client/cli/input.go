package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/jarcover/internal/client/models"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

var ErrUsage = errors.New("usage")

// splitCommand returns the first word of line and the rest with its inner
// spacing intact, so "purpose  Help the  army" keeps the purpose as typed.
func splitCommand(line string) (cmd, rest string) {
	line = strings.TrimSpace(line)
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

// parseIndex reads a 1-based list position and returns it 0-based.
func parseIndex(arg string, n int) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("%w: expected a number from 1 to %d", ErrUsage, n)
	}
	return i - 1, nil
}

// parsePoint reads "<dx> <dy>".
func parsePoint(rest string) (models.Point, error) {
	parts := strings.Fields(rest)
	if len(parts) != 2 {
		return models.Point{}, fmt.Errorf("%w: drag <dx> <dy>", ErrUsage)
	}
	x, errX := strconv.ParseFloat(parts[0], 64)
	y, errY := strconv.ParseFloat(parts[1], 64)
	if errX != nil || errY != nil {
		return models.Point{}, fmt.Errorf("%w: drag <dx> <dy>", ErrUsage)
	}
	return models.Point{X: x, Y: y}, nil
}

// parseFactor reads a positive pinch factor.
func parseFactor(rest string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: pinch <factor>, e.g. pinch 1.5", ErrUsage)
	}
	return v, nil
}
