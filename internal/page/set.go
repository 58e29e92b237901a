package page

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// FetchFunc produces the payload for one slot of a page.
type FetchFunc func(context.Context) (json.RawMessage, error)

type slot struct {
	name  string
	fetch FetchFunc
}

// RequestSet is the group of independent fetches one page needs. Run joins
// them: every slot must resolve before anything is returned, and a single
// failure fails the whole set with no partial results.
type RequestSet struct {
	slots []slot
}

func (s *RequestSet) Add(name string, fetch FetchFunc) {
	s.slots = append(s.slots, slot{name: name, fetch: fetch})
}

func (s *RequestSet) Len() int {
	return len(s.slots)
}

// Run fetches all slots concurrently. Slot completion order is not
// significant; the first error cancels the group and is returned.
func (s *RequestSet) Run(ctx context.Context) (map[string]json.RawMessage, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]json.RawMessage, len(s.slots))

	for i, sl := range s.slots {
		g.Go(func() error {
			payload, err := sl.fetch(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", sl.name, err)
			}
			results[i] = payload
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]json.RawMessage, len(s.slots))
	for i, sl := range s.slots {
		out[sl.name] = results[i]
	}
	return out, nil
}
