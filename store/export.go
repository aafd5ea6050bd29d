package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/caffeinepub/sprint-lane-7/domain"
)

const csvHeader = "Title,Description,Column,Tags,Assignee"

// ExportBoardCSV serializes the board's cards to CSV, ordered by column
// position then card position. Tag ids are resolved to names; dangling ids
// are skipped. Every field is quoted and spreadsheet formula injection is
// neutralized.
func (s *Store) ExportBoardCSV(userID string, boardID uint64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[boardID]; !ok {
		return "", fmt.Errorf("board %d: %w", boardID, ErrNotFound)
	}
	if err := s.requireMember(boardID, userID); err != nil {
		return "", err
	}

	cols := []*domain.Column{}
	for _, col := range s.columns {
		if col.BoardID == boardID {
			cols = append(cols, col)
		}
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].Position < cols[j].Position })

	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')

	for _, col := range cols {
		cards := []*domain.Card{}
		for _, card := range s.cards {
			if card.ColumnID == col.ID {
				cards = append(cards, card)
			}
		}
		sort.Slice(cards, func(i, j int) bool { return cards[i].Position < cards[j].Position })

		for _, card := range cards {
			names := []string{}
			for _, tagID := range card.Tags {
				if tag, ok := s.tags[tagID]; ok {
					names = append(names, tag.Name)
				}
			}
			row := []string{card.Title, card.Description, col.Name, strings.Join(names, "; "), card.AssigneeID}
			for i, field := range row {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(escapeCSVField(field))
			}
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// escapeCSVField wraps the field in double quotes with inner quotes doubled.
// Fields starting with a formula trigger character get a leading apostrophe
// first, so spreadsheets render them as text.
func escapeCSVField(field string) string {
	if field != "" {
		switch field[0] {
		case '=', '+', '-', '@', '\t', '\r':
			field = "'" + field
		}
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
