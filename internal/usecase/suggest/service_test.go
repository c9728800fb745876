package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/suggestd/internal/domain"
	"github.com/kailas-cloud/suggestd/internal/domain/index"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/hit"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/lucene"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/options"
)

// --- Mocks ---

type mockRepo struct {
	hits   []hit.Hit
	total  int
	err    error
	called bool

	lastRef       index.Ref
	lastTree      *lucene.Boolean
	lastMinPrefix int
	lastLimit     int
}

func (m *mockRepo) Suggest(
	_ context.Context, ref index.Ref, tree *lucene.Boolean, minPrefixLength, limit int,
) ([]hit.Hit, int, error) {
	m.called = true
	m.lastRef = ref
	m.lastTree = tree
	m.lastMinPrefix = minPrefixLength
	m.lastLimit = limit
	return m.hits, m.total, m.err
}

func newService(repo Repository, hooks Hooks) *Service {
	return New(repo, Config{
		KeyPrefix: "suggestd:",
		Defaults:  options.Default(),
		Hooks:     hooks,
	})
}

// --- Tests ---

func TestSuggest_HappyPath(t *testing.T) {
	repo := &mockRepo{
		hits:  []hit.Hit{hit.New("sku-1", 1.5, map[string]string{"title": "red shoes"})},
		total: 1,
	}
	svc := newService(repo, Hooks{})

	res, err := svc.Suggest(context.Background(), Request{Index: "products", Query: "red sho"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Query != `+"red" +sho*` {
		t.Errorf("query = %q", res.Query)
	}
	if len(res.Hits) != 1 || res.Hits[0].ID() != "sku-1" || res.Total != 1 {
		t.Errorf("unexpected result: %+v", res)
	}
	if repo.lastRef.IndexName() != "suggestd:products:stable:idx" {
		t.Errorf("index = %q", repo.lastRef.IndexName())
	}
	if repo.lastMinPrefix != 3 || repo.lastLimit != 3 {
		t.Errorf("settings: min=%d limit=%d", repo.lastMinPrefix, repo.lastLimit)
	}
	if got := repo.lastTree.String(); got != `+(+"red" +sho*)` {
		t.Errorf("tree = %s", got)
	}
}

func TestSuggest_HookOrder(t *testing.T) {
	var calls []string
	genesis := func(t *testing.T) index.Ref {
		t.Helper()
		ref, err := index.NewRef("suggestd:", "products", index.BaseGenesis)
		if err != nil {
			t.Fatalf("NewRef: %v", err)
		}
		return ref
	}(t)

	hooks := Hooks{
		PreExecute: func(_ context.Context, ref index.Ref) index.Ref {
			calls = append(calls, "pre_execute:"+ref.String())
			return genesis
		},
		CleanTerm: func(_ context.Context, raw string) string {
			calls = append(calls, "clean_term:"+raw)
			return strings.ToLower(strings.TrimSpace(raw))
		},
		PostParse: func(_ context.Context, clean, expr string) string {
			calls = append(calls, "post_parse:"+clean+"|"+expr)
			return expr
		},
		PostBuild: func(_ context.Context, q *lucene.Boolean, clean string) *lucene.Boolean {
			calls = append(calls, "post_build:"+clean+"|"+q.String())
			return q.Add(&lucene.Term{Field: "lang", Text: "en"}, lucene.Must)
		},
		PostExecute: func(_ context.Context, hits []hit.Hit) []hit.Hit {
			calls = append(calls, "post_execute")
			return hits[:1]
		},
	}

	repo := &mockRepo{hits: []hit.Hit{
		hit.New("a", 2, nil),
		hit.New("b", 1, nil),
	}, total: 2}
	svc := newService(repo, hooks)

	res, err := svc.Suggest(context.Background(), Request{Index: "products", Query: " Shoe "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"pre_execute:products/stable",
		"clean_term: Shoe ",
		"post_parse:shoe|+shoe*",
		"post_build:shoe|+(+shoe*)",
		"post_execute",
	}
	if strings.Join(calls, "\n") != strings.Join(want, "\n") {
		t.Errorf("calls:\n%s\nwant:\n%s", strings.Join(calls, "\n"), strings.Join(want, "\n"))
	}
	if repo.lastRef.Base() != index.BaseGenesis {
		t.Errorf("PreExecute ref not used: %s", repo.lastRef)
	}
	if got := repo.lastTree.String(); got != "+(+shoe*) +lang:en" {
		t.Errorf("PostBuild tree not submitted: %s", got)
	}
	if len(res.Hits) != 1 || res.Hits[0].ID() != "a" {
		t.Errorf("PostExecute result not returned: %+v", res.Hits)
	}
}

func TestSuggest_PostParseReplacesExpression(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo, Hooks{
		PostParse: func(context.Context, string, string) string { return "title:shoe*" },
	})

	res, err := svc.Suggest(context.Background(), Request{Index: "products", Query: "anything"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Query != "title:shoe*" {
		t.Errorf("query = %q", res.Query)
	}
	if got := repo.lastTree.String(); got != "+(title:shoe*)" {
		t.Errorf("tree = %s", got)
	}
}

func TestSuggest_MatchesNothingSkipsBackend(t *testing.T) {
	tests := []struct {
		name  string
		query string
		hooks Hooks
	}{
		{name: "empty input", query: ""},
		{name: "all tokens too short", query: "a ab"},
		{name: "only spaces", query: "   "},
		{
			name:  "negative clauses only",
			query: "shoe",
			hooks: Hooks{PostParse: func(context.Context, string, string) string { return "-shoe" }},
		},
		{
			name:  "dropped by post build",
			query: "shoe",
			hooks: Hooks{PostBuild: func(context.Context, *lucene.Boolean, string) *lucene.Boolean { return nil }},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			postExecuted := false
			tc.hooks.PostExecute = func(_ context.Context, hits []hit.Hit) []hit.Hit {
				postExecuted = true
				return hits
			}
			repo := &mockRepo{}
			svc := newService(repo, tc.hooks)

			res, err := svc.Suggest(context.Background(), Request{Index: "products", Query: tc.query})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.called {
				t.Error("backend must not be called")
			}
			if !postExecuted {
				t.Error("PostExecute must still run")
			}
			if res.Hits == nil || len(res.Hits) != 0 || res.Total != 0 {
				t.Errorf("expected empty non-nil hits, got %+v", res)
			}
		})
	}
}

func TestSuggest_RequestOptions(t *testing.T) {
	opts, err := options.New(2, 10, []string{"title", "brand"}, options.OperatorAnd)
	if err != nil {
		t.Fatalf("options.New: %v", err)
	}
	repo := &mockRepo{}
	svc := newService(repo, Hooks{})

	res, err := svc.Suggest(context.Background(), Request{
		Index:   "products",
		Base:    index.BaseGenesis,
		Query:   "ab c",
		Options: &opts,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Query != "title:+ab* AND brand:+ab*" {
		t.Errorf("query = %q", res.Query)
	}
	if repo.lastMinPrefix != 2 || repo.lastLimit != 10 {
		t.Errorf("settings: min=%d limit=%d", repo.lastMinPrefix, repo.lastLimit)
	}
	if repo.lastRef.Base() != index.BaseGenesis {
		t.Errorf("base = %s", repo.lastRef.Base())
	}
}

func TestSuggest_FieldOperator(t *testing.T) {
	trees := make(map[options.Operator]string)
	for _, op := range []options.Operator{options.OperatorAnd, options.OperatorOr} {
		opts, err := options.New(3, 5, []string{"title", "body"}, op)
		if err != nil {
			t.Fatalf("options.New: %v", err)
		}
		repo := &mockRepo{}
		svc := newService(repo, Hooks{})

		if _, err := svc.Suggest(context.Background(), Request{
			Index: "products", Query: "cat dog", Options: &opts,
		}); err != nil {
			t.Fatalf("%s: unexpected error: %v", op, err)
		}
		trees[op] = repo.lastTree.String()
	}

	if want := `+(+(+title:"cat" +title:dog*) +(+body:"cat" +body:dog*))`; trees[options.OperatorAnd] != want {
		t.Errorf("AND tree = %s, want %s", trees[options.OperatorAnd], want)
	}
	if want := `+((+title:"cat" +title:dog*) (+body:"cat" +body:dog*))`; trees[options.OperatorOr] != want {
		t.Errorf("OR tree = %s, want %s", trees[options.OperatorOr], want)
	}
}

func TestSuggest_WildcardInput(t *testing.T) {
	tests := []struct {
		input     string
		wantQuery string
		wantTree  string
	}{
		{"where is my order?", `+"where" +order?*`, `+(+"where" +order*)`},
		{"shoe*", `+shoe**`, `+(+shoe*)`},
		{"c*t", `+c*t*`, `+(+ct)`},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			t.Run("lenient", func(t *testing.T) {
				repo := &mockRepo{}
				svc := newService(repo, Hooks{})

				res, err := svc.Suggest(context.Background(), Request{Index: "products", Query: tc.input})
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if res.Query != tc.wantQuery {
					t.Errorf("query = %q, want %q", res.Query, tc.wantQuery)
				}
				if !repo.called {
					t.Fatal("backend must be called")
				}
				if got := repo.lastTree.String(); got != tc.wantTree {
					t.Errorf("tree = %s, want %s", got, tc.wantTree)
				}
			})

			t.Run("strict", func(t *testing.T) {
				repo := &mockRepo{}
				svc := New(repo, Config{Defaults: options.Default(), StrictParsing: true})

				_, err := svc.Suggest(context.Background(), Request{Index: "products", Query: tc.input})
				if !errors.Is(err, domain.ErrInvalidQuery) {
					t.Fatalf("expected ErrInvalidQuery, got %v", err)
				}
				if repo.called {
					t.Error("backend must not be called")
				}
			})
		})
	}
}

func TestSuggest_DefaultBase(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, Config{KeyPrefix: "s:", DefaultBase: index.BaseGenesis})

	if _, err := svc.Suggest(context.Background(), Request{Index: "products", Query: "shoe"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastRef.IndexName() != "s:products:genesis:idx" {
		t.Errorf("index = %q", repo.lastRef.IndexName())
	}
}

func TestSuggest_StrictParsing(t *testing.T) {
	broken := Hooks{PostParse: func(context.Context, string, string) string { return `+"say (hi*` }}

	t.Run("strict", func(t *testing.T) {
		repo := &mockRepo{}
		svc := New(repo, Config{Defaults: options.Default(), StrictParsing: true, Hooks: broken})
		_, err := svc.Suggest(context.Background(), Request{Index: "products", Query: "hello"})
		if !errors.Is(err, domain.ErrInvalidQuery) {
			t.Fatalf("expected ErrInvalidQuery, got %v", err)
		}
		if repo.called {
			t.Error("backend must not be called")
		}
	})

	t.Run("lenient", func(t *testing.T) {
		repo := &mockRepo{}
		svc := New(repo, Config{Defaults: options.Default(), Hooks: broken})
		if _, err := svc.Suggest(context.Background(), Request{Index: "products", Query: "hello"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := repo.lastTree.String(); got != "+(say hi)" {
			t.Errorf("tree = %s", got)
		}
	})
}

func TestSuggest_InvalidIndex(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo, Hooks{})

	_, err := svc.Suggest(context.Background(), Request{Index: "bad name", Query: "shoe"})
	if !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
	if repo.called {
		t.Error("backend must not be called")
	}
}

func TestSuggest_RepoError(t *testing.T) {
	repo := &mockRepo{err: domain.NewBackendError("suggest products/stable", errors.New("conn refused"))}
	svc := newService(repo, Hooks{})

	res, err := svc.Suggest(context.Background(), Request{Index: "products", Query: "shoe"})
	if !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
	if res.Query != "+shoe*" {
		t.Errorf("query should be reported on failure, got %q", res.Query)
	}
}

func TestChain(t *testing.T) {
	var order []string
	upper := Hooks{CleanTerm: func(_ context.Context, s string) string {
		order = append(order, "upper")
		return strings.ToUpper(s)
	}}
	trim := Hooks{
		CleanTerm: func(_ context.Context, s string) string {
			order = append(order, "trim")
			return strings.TrimSpace(s)
		},
		PostExecute: func(_ context.Context, hits []hit.Hit) []hit.Hit { return hits[1:] },
	}
	reverse := Hooks{PostExecute: func(_ context.Context, hits []hit.Hit) []hit.Hit {
		out := make([]hit.Hit, 0, len(hits))
		for i := len(hits) - 1; i >= 0; i-- {
			out = append(out, hits[i])
		}
		return out
	}}

	h := Chain(upper, Hooks{}, trim, reverse)

	if got := h.cleanTerm(context.Background(), " shoe "); got != "SHOE" {
		t.Errorf("cleanTerm = %q", got)
	}
	if strings.Join(order, ",") != "upper,trim" {
		t.Errorf("order = %v", order)
	}

	hits := h.postExecute(context.Background(), []hit.Hit{hit.New("a", 0, nil), hit.New("b", 0, nil), hit.New("c", 0, nil)})
	if len(hits) != 2 || hits[0].ID() != "c" || hits[1].ID() != "b" {
		t.Errorf("postExecute = %v", hits)
	}

	if h.PreExecute != nil || h.PostParse != nil || h.PostBuild != nil {
		t.Error("unset hooks must stay nil")
	}
}

func TestHooks_NilSafe(t *testing.T) {
	var h Hooks
	ctx := context.Background()
	ref, _ := index.NewRef("", "products", "")

	if got := h.preExecute(ctx, ref); got != ref {
		t.Errorf("preExecute changed ref")
	}
	if got := h.cleanTerm(ctx, "x"); got != "x" {
		t.Errorf("cleanTerm = %q", got)
	}
	if got := h.postParse(ctx, "x", "+x*"); got != "+x*" {
		t.Errorf("postParse = %q", got)
	}
	q := &lucene.Boolean{}
	if got := h.postBuild(ctx, q, "x"); got != q {
		t.Error("postBuild changed query")
	}
	if got := h.postExecute(ctx, nil); got != nil {
		t.Errorf("postExecute = %v", got)
	}
}
