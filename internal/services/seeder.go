package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/qafariamirhossein/3d-portfolio/internal/cms"
	"github.com/qafariamirhossein/3d-portfolio/internal/models"
)

// EntityState tracks one record through the create-or-resolve workflow.
type EntityState string

const (
	StateNotAttempted     EntityState = "not_attempted"
	StateCreating         EntityState = "creating"
	StateCreated          EntityState = "created"
	StateConflictDetected EntityState = "conflict_detected"
	StateResolved         EntityState = "resolved"
	StateFailed           EntityState = "failed"
	StateSkipped          EntityState = "skipped"
	StatePublished        EntityState = "published"
)

// Record kinds, also used as ledger kinds.
const (
	KindAuthor   = "author"
	KindCategory = "category"
	KindTag      = "tag"
	KindPost     = "post"
	KindPublish  = "publish"
)

// CMSWriter is the part of the CMS client the seeder needs.
type CMSWriter interface {
	Create(ctx context.Context, collection string, data any) (*cms.Entity, error)
	FindOne(ctx context.Context, collection, field, value string) (*cms.Entity, error)
	Update(ctx context.Context, collection, ref string, data any) error
}

// Outcome is where one record ended up.
type Outcome struct {
	Kind   string
	Key    string // natural key value
	Title  string
	State  EntityState
	ID     int
	Ref    string
	Entity *cms.Entity
	Err    error
}

// HasIdentity reports whether the record can be linked or updated.
func (o *Outcome) HasIdentity() bool {
	return o != nil && (o.State == StateCreated || o.State == StateResolved) && o.ID != 0
}

// Report accumulates outcomes in processing order, indexed by kind and natural key.
type Report struct {
	RunID    string
	Outcomes []*Outcome
	index    map[string]*Outcome
}

func newReport() *Report {
	return &Report{index: map[string]*Outcome{}}
}

func (r *Report) add(o *Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	r.index[o.Kind+":"+o.Key] = o
}

// Get returns the outcome for kind and natural key, or nil.
func (r *Report) Get(kind, key string) *Outcome {
	return r.index[kind+":"+key]
}

func (r *Report) Count(kind string, state EntityState) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Kind == kind && o.State == state {
			n++
		}
	}
	return n
}

// Summary renders per-kind counts for the CLI.
func (r *Report) Summary() string {
	var b strings.Builder
	for _, kind := range []string{KindAuthor, KindCategory, KindTag, KindPost} {
		fmt.Fprintf(&b, "%-10s created=%d resolved=%d\n", kind,
			r.Count(kind, StateCreated), r.Count(kind, StateResolved))
	}
	fmt.Fprintf(&b, "%-10s published=%d skipped=%d failed=%d\n", KindPublish,
		r.Count(KindPublish, StatePublished), r.Count(KindPublish, StateSkipped), r.Count(KindPublish, StateFailed))
	return b.String()
}

// Delays are the pauses between consecutive writes of each batch.
type Delays struct {
	Taxonomy time.Duration
	Posts    time.Duration
	Publish  time.Duration
}

var DefaultDelays = Delays{
	Taxonomy: 100 * time.Millisecond,
	Posts:    200 * time.Millisecond,
	Publish:  100 * time.Millisecond,
}

// Scale multiplies every delay by f.
func (d Delays) Scale(f float64) Delays {
	scale := func(v time.Duration) time.Duration { return time.Duration(float64(v) * f) }
	return Delays{Taxonomy: scale(d.Taxonomy), Posts: scale(d.Posts), Publish: scale(d.Publish)}
}

// Ledger persists run and outcome history. Failures to record are logged
// and never abort a run.
type Ledger interface {
	Start(ctx context.Context, origin string) (string, error)
	Record(ctx context.Context, runID string, o *Outcome) error
	Finish(ctx context.Context, runID string, runErr error) error
}

// Seeder writes a Dataset to the CMS so that repeated runs converge on the
// same content instead of failing or duplicating it.
type Seeder struct {
	cms         CMSWriter
	origin      string
	delays      Delays
	ledger      Ledger
	skipPublish bool
}

type SeederOption func(*Seeder)

func WithDelays(d Delays) SeederOption {
	return func(s *Seeder) { s.delays = d }
}

func WithLedger(l Ledger, origin string) SeederOption {
	return func(s *Seeder) {
		s.ledger = l
		s.origin = origin
	}
}

func WithSkipPublish(skip bool) SeederOption {
	return func(s *Seeder) { s.skipPublish = skip }
}

func NewSeeder(w CMSWriter, opts ...SeederOption) *Seeder {
	s := &Seeder{cms: w, delays: DefaultDelays}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lookup is one natural-key field tried after a conflict.
type lookup struct {
	field string
	value string
}

// Run seeds author, categories, tags, posts and then publishes the posts.
// Any error other than a resolvable conflict aborts the run.
func (s *Seeder) Run(ctx context.Context, ds *Dataset) (*Report, error) {
	report := newReport()

	if s.ledger != nil {
		runID, err := s.ledger.Start(ctx, s.origin)
		if err != nil {
			log.Printf("[seed] ledger unavailable: %v", err)
		} else {
			report.RunID = runID
		}
	}

	err := s.run(ctx, ds, report)

	if s.ledger != nil && report.RunID != "" {
		if ferr := s.ledger.Finish(ctx, report.RunID, err); ferr != nil {
			log.Printf("[seed] failed to close ledger run %s: %v", report.RunID, ferr)
		}
	}
	return report, err
}

func (s *Seeder) run(ctx context.Context, ds *Dataset, report *Report) error {
	log.Println("[seed] creating author")
	author, err := s.ensure(ctx, report, KindAuthor, cms.CollectionAuthors, ds.Author.Email, ds.Author.Name,
		ds.Author, lookup{"email", ds.Author.Email})
	if err != nil {
		return err
	}

	log.Printf("[seed] creating %d categories", len(ds.Categories))
	err = Each(ctx, NewThrottle(s.delays.Taxonomy), ds.Categories, func(c models.CategoryInput) error {
		_, err := s.ensure(ctx, report, KindCategory, cms.CollectionCategories, c.Name, c.Name, c,
			lookup{"name", c.Name}, lookup{"slug", c.Slug})
		return err
	})
	if err != nil {
		return err
	}

	log.Printf("[seed] creating %d tags", len(ds.Tags))
	err = Each(ctx, NewThrottle(s.delays.Taxonomy), ds.Tags, func(t models.TagInput) error {
		_, err := s.ensure(ctx, report, KindTag, cms.CollectionTags, t.Name, t.Name, t,
			lookup{"name", t.Name}, lookup{"slug", t.Slug})
		return err
	})
	if err != nil {
		return err
	}

	log.Printf("[seed] creating %d posts", len(ds.Posts))
	var posts []*Outcome
	err = Each(ctx, NewThrottle(s.delays.Posts), ds.Posts, func(p models.PostInput) error {
		p = s.link(p, author, report)
		o, err := s.ensure(ctx, report, KindPost, cms.CollectionBlogs, p.Slug, p.Title, p,
			lookup{"slug", p.Slug})
		if err != nil {
			return err
		}
		posts = append(posts, o)
		return nil
	})
	if err != nil {
		return err
	}

	if s.skipPublish {
		log.Println("[seed] publish pass skipped")
		return nil
	}

	published := make(map[string]string, len(ds.Posts))
	for _, p := range ds.Posts {
		published[p.Slug] = p.PublishedAt
	}
	log.Printf("[seed] publishing %d posts", len(posts))
	return Each(ctx, NewThrottle(s.delays.Publish), posts, func(o *Outcome) error {
		s.publish(ctx, report, o, published[o.Key])
		return ctx.Err()
	})
}

// link swaps category and tag names for the ids settled earlier in the run.
func (s *Seeder) link(p models.PostInput, author *Outcome, report *Report) models.PostInput {
	if author.HasIdentity() {
		p.Author = author.ID
	}

	if cat := report.Get(KindCategory, p.CategoryName); cat.HasIdentity() {
		p.Category = cat.ID
	} else if p.CategoryName != "" {
		log.Printf("[seed] ⚠️ category %q not found for post %q", p.CategoryName, p.Title)
	}

	p.Tags = make([]int, 0, len(p.TagNames))
	for _, name := range p.TagNames {
		if tag := report.Get(KindTag, name); tag.HasIdentity() {
			p.Tags = append(p.Tags, tag.ID)
		}
	}
	return p
}

// ensure creates a record, or on a uniqueness conflict resolves the existing
// one by trying lookups in order.
func (s *Seeder) ensure(ctx context.Context, report *Report, kind, collection, key, title string, payload any, lookups ...lookup) (*Outcome, error) {
	o := &Outcome{Kind: kind, Key: key, Title: title, State: StateNotAttempted}
	defer func() {
		report.add(o)
		s.record(ctx, report.RunID, o)
	}()

	o.State = StateCreating
	entity, err := s.cms.Create(ctx, collection, payload)
	if err == nil {
		o.settle(StateCreated, entity)
		log.Printf("[seed] ✅ %s %q created (id=%d)", kind, title, o.ID)
		return o, nil
	}

	fields := make([]string, 0, len(lookups))
	for _, l := range lookups {
		fields = append(fields, l.field)
	}
	if !cms.IsUniqueViolation(err, fields...) {
		o.fail(err)
		return o, fmt.Errorf("create %s %q: %w", kind, title, err)
	}

	o.State = StateConflictDetected
	log.Printf("[seed] ⏭️ %s %q already exists, looking it up", kind, title)

	for _, l := range lookups {
		if l.value == "" {
			continue
		}
		entity, err := s.cms.FindOne(ctx, collection, l.field, l.value)
		if errors.Is(err, cms.ErrNotFound) {
			continue
		}
		if err != nil {
			o.fail(err)
			return o, fmt.Errorf("look up existing %s %q: %w", kind, title, err)
		}
		o.settle(StateResolved, entity)
		log.Printf("[seed] 🔗 %s %q resolved (id=%d)", kind, title, o.ID)
		return o, nil
	}

	err = fmt.Errorf("%s %q conflicts but no existing record matched: %w", kind, title, cms.ErrNotFound)
	o.fail(err)
	return o, err
}

func (s *Seeder) publish(ctx context.Context, report *Report, post *Outcome, publishedAt string) {
	o := &Outcome{Kind: KindPublish, Key: post.Key, Title: post.Title, State: StateNotAttempted}
	defer func() {
		report.add(o)
		s.record(ctx, report.RunID, o)
	}()

	if !post.HasIdentity() || post.Ref == "" {
		o.State = StateSkipped
		log.Printf("[seed] ⚠️ skipping publish of %q: no id", post.Title)
		return
	}
	o.ID, o.Ref = post.ID, post.Ref

	if publishedAt == "" && post.Entity != nil {
		publishedAt, _ = post.Entity.Fields["publishedAt"].(string)
	}
	if publishedAt == "" {
		publishedAt = time.Now().UTC().Format(isoLayout)
	}

	if err := s.cms.Update(ctx, cms.CollectionBlogs, post.Ref, map[string]string{"publishedAt": publishedAt}); err != nil {
		o.Err = err
		o.State = StateFailed
		log.Printf("[seed] ⚠️ could not publish %q: %v", post.Title, err)
		return
	}
	o.State = StatePublished
	log.Printf("[seed] 📢 %q published", post.Title)
}

func (s *Seeder) record(ctx context.Context, runID string, o *Outcome) {
	if s.ledger == nil || runID == "" {
		return
	}
	if err := s.ledger.Record(ctx, runID, o); err != nil {
		log.Printf("[seed] failed to record %s %q: %v", o.Kind, o.Key, err)
	}
}

func (o *Outcome) settle(state EntityState, e *cms.Entity) {
	o.State = state
	o.Entity = e
	o.ID = e.ID
	o.Ref = e.Ref()
}

func (o *Outcome) fail(err error) {
	o.State = StateFailed
	o.Err = err
}
