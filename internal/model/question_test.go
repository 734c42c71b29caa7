package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionTexts(t *testing.T) {
	t.Run("orders by position even when loaded out of order", func(t *testing.T) {
		q := Question{Options: []QuestionOption{
			{Position: 3, Text: "C"},
			{Position: 1, Text: "A"},
			{Position: 4, Text: "D"},
			{Position: 2, Text: "B"},
		}}

		assert.Equal(t, []string{"A", "B", "C", "D"}, q.OptionTexts())
	})

	t.Run("leaves the loaded slice untouched", func(t *testing.T) {
		q := Question{Options: []QuestionOption{
			{Position: 2, Text: "B"},
			{Position: 1, Text: "A"},
		}}

		_ = q.OptionTexts()

		assert.Equal(t, "B", q.Options[0].Text)
	})

	t.Run("no options", func(t *testing.T) {
		q := Question{}
		assert.Empty(t, q.OptionTexts())
	})
}
