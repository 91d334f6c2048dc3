package feed

import (
	"context"
	"fmt"
	"slices"
)

var demoCards = []Card{
	{Title: "woof", Body: "woof dog", Tags: []string{"dog"}},
	{Title: "meow", Body: "meow cat", Tags: []string{"cat"}},
	{Title: "baaah", Body: "baah sheep", Tags: []string{"sheep"}},
}

// Static serves an in-memory card list.
type Static struct {
	name  string
	cards []Card
}

// NewStatic returns a loader over a copy of cards.
func NewStatic(name string, cards []Card) *Static {
	return &Static{name: name, cards: normalize(slices.Clone(cards))}
}

// Demo returns the built-in animal feed. With count > 3 the three demo
// cards repeat until count cards exist, which is handy for exercising
// virtualization on a long list.
func Demo(count int) *Static {
	count = max(count, len(demoCards))
	cards := make([]Card, count)
	for i := range cards {
		c := demoCards[i%len(demoCards)]
		c.ID = fmt.Sprint(i + 1)
		if i >= len(demoCards) {
			c.Title = fmt.Sprintf("%s #%d", c.Title, i/len(demoCards)+1)
		}
		c.Tags = slices.Clone(c.Tags)
		cards[i] = c
	}
	return &Static{name: fmt.Sprintf("animals:%d", count), cards: cards}
}

func (s *Static) Kind() string     { return KindDemo }
func (s *Static) Location() string { return s.name }
func (s *Static) Close() error     { return nil }

// Load returns a copy of the cards.
func (s *Static) Load(ctx context.Context) ([]Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s.cards), nil
}
