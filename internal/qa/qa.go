// Package qa answers visitor questions and walks scenario decisions using
// the content store's full-text index and canned reply templates.
package qa

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/rcliao/brainsite/internal/catalog"
	"github.com/rcliao/brainsite/internal/model"
	"github.com/rcliao/brainsite/internal/store"
)

// Searcher ranks content passages. store.Store satisfies it.
type Searcher interface {
	Search(ctx context.Context, p store.SearchParams) ([]store.SearchResult, error)
}

// Answer is the reply to a question.
type Answer struct {
	Question string               `json:"question"`
	Reply    string               `json:"reply"`
	Matched  bool                 `json:"matched"`
	Region   *model.Region        `json:"region,omitempty"`
	Model    *model.MentalModel   `json:"model,omitempty"`
	Sources  []store.SearchResult `json:"sources,omitempty"`
}

// Options configures an Asker.
type Options struct {
	Rand   *rand.Rand
	Logger *zap.Logger
}

// Asker answers questions against one catalog.
type Asker struct {
	cat    *catalog.Catalog
	search Searcher
	logger *zap.Logger

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// New creates an Asker.
func New(cat *catalog.Catalog, search Searcher, opts Options) *Asker {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Asker{cat: cat, search: search, logger: opts.Logger, rng: opts.Rand}
}

// Ask answers question. A question that is blank after trimming is not
// submitted: ok is false and nothing is searched.
func (a *Asker) Ask(ctx context.Context, question string) (ans Answer, ok bool, err error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return Answer{}, false, nil
	}

	results, err := a.search.Search(ctx, store.SearchParams{Query: q, Limit: 10})
	if err != nil {
		return Answer{}, false, fmt.Errorf("search: %w", err)
	}

	ans = Answer{Question: q, Sources: results}
	for _, r := range results {
		switch r.Kind {
		case "region":
			if ans.Region == nil {
				if reg, found := a.cat.Region(r.RefID); found {
					ans.Region = &reg
				}
			}
		case "model":
			if ans.Model == nil {
				if m, found := a.cat.MentalModel(r.RefID); found {
					ans.Model = &m
				}
			}
		}
	}

	if ans.Region != nil && ans.Model == nil {
		ans.Model = a.favoriteModel()
	}
	if ans.Region != nil && ans.Model != nil && len(a.cat.Replies.Matched) > 0 {
		ans.Matched = true
		tmpl := a.pick(a.cat.Replies.Matched)
		ans.Reply = strings.NewReplacer("{region}", ans.Region.Name, "{model}", ans.Model.Name).Replace(tmpl)
	} else {
		ans.Reply = a.pick(a.cat.Replies.Fallback)
	}

	a.logger.Debug("question answered",
		zap.Bool("matched", ans.Matched),
		zap.Int("sources", len(results)))
	return ans, true, nil
}

// favoriteModel is the most engaged mental model.
func (a *Asker) favoriteModel() *model.MentalModel {
	var best *model.MentalModel
	for i := range a.cat.MentalModels {
		m := a.cat.MentalModels[i]
		if best == nil || m.Engagement > best.Engagement {
			best = &m
		}
	}
	return best
}

func (a *Asker) pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return options[a.rng.Intn(len(options))]
}

// Step is one framework step checked against a decision.
type Step struct {
	Index     int      `json:"index"`
	Text      string   `json:"text"`
	Addressed bool     `json:"addressed"`
	Keywords  []string `json:"keywords,omitempty"`
}

// Decision is a scenario's framework walked against the visitor's answer.
type Decision struct {
	ScenarioID int    `json:"scenario_id"`
	Decision   string `json:"decision"`
	Steps      []Step `json:"steps"`
	Addressed  int    `json:"addressed"`
	Summary    string `json:"summary"`
}

// Decide walks the scenario's framework against decision. A decision that
// is blank after trimming is not submitted.
func Decide(sc model.Scenario, decision string) (Decision, bool) {
	d := strings.TrimSpace(decision)
	if d == "" {
		return Decision{}, false
	}

	words := keywords(d)
	out := Decision{ScenarioID: sc.ID, Decision: d}
	for i, text := range sc.Framework {
		step := Step{Index: i + 1, Text: text}
		for k := range keywords(text) {
			if words[k] {
				step.Keywords = append(step.Keywords, k)
			}
		}
		sort.Strings(step.Keywords)
		step.Addressed = len(step.Keywords) > 0
		if step.Addressed {
			out.Addressed++
		}
		out.Steps = append(out.Steps, step)
	}

	switch {
	case len(out.Steps) == 0:
		out.Summary = "No framework for this scenario yet."
	case out.Addressed == len(out.Steps):
		out.Summary = "You covered every step of the framework."
	default:
		out.Summary = fmt.Sprintf("You covered %d of %d steps. Look again at step %d.",
			out.Addressed, len(out.Steps), firstMissed(out.Steps))
	}
	return out, true
}

func firstMissed(steps []Step) int {
	for _, s := range steps {
		if !s.Addressed {
			return s.Index
		}
	}
	return 0
}

// keywords returns the lowercased words of at least four letters, trimmed
// of a trailing "s".
func keywords(text string) map[string]bool {
	out := map[string]bool{}
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if len(w) < 4 || ignored[w] {
			continue
		}
		out[strings.TrimSuffix(w, "s")] = true
	}
	return out
}

var ignored = map[string]bool{
	"then": true, "than": true, "that": true, "this": true, "with": true,
	"what": true, "your": true, "before": true, "both": true, "over": true,
	"rather": true, "next": true, "whether": true, "will": true, "would": true,
}
