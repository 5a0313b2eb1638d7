package docs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tengjizhang/scrub/internal/model"
	"github.com/tengjizhang/scrub/internal/sanitize"
	"github.com/tengjizhang/scrub/internal/store"
)

func TestServicePutSanitizesAndReportsDelta(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()

	raw := `<h1>Hello</h1><script>alert('x')</script>`
	res, err := svc.Put(ctx, "My Page", raw, " https://example.com/src ")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	want := model.PutResult{
		Name:        "My-Page",
		Inserted:    true,
		InputBytes:  len(raw),
		OutputBytes: len("<h1>Hello</h1>"),
		Delta:       len(raw) - len("<h1>Hello</h1>"),
	}
	if res != want {
		t.Fatalf("put result = %+v, want %+v", res, want)
	}

	doc, err := svc.Get(ctx, "My Page")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.HTML != "<h1>Hello</h1>" || doc.Source != "https://example.com/src" {
		t.Fatalf("unexpected stored doc: %+v", doc)
	}

	res, err = svc.Put(ctx, "My-Page", "<p>v2</p>", "")
	if err != nil {
		t.Fatalf("put again: %v", err)
	}
	if res.Inserted || res.Delta != 0 {
		t.Fatalf("expected clean update, got %+v", res)
	}
}

func TestServicePutValidation(t *testing.T) {
	svc := newTestService(t, Options{MaxInputBytes: 16})
	ctx := context.Background()

	if _, err := svc.Put(ctx, "", "<p>x</p>", ""); !errors.Is(err, store.ErrMissingField) {
		t.Fatalf("missing name: got %v", err)
	}
	if _, err := svc.Put(ctx, "doc", "  \n", ""); !errors.Is(err, store.ErrMissingField) {
		t.Fatalf("missing body: got %v", err)
	}
	_, err := svc.Put(ctx, "doc", strings.Repeat("x", 17), "")
	if !errors.Is(err, store.ErrTooLarge) || !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("oversize body: got %v", err)
	}
	if _, err := svc.Put(ctx, "doc", strings.Repeat("x", 16), ""); err != nil {
		t.Fatalf("body at the limit should be accepted: %v", err)
	}
}

func TestServiceUsesConfiguredPolicy(t *testing.T) {
	p := sanitize.NewPolicy(sanitize.PolicyConfig{
		AllowedTags:  map[string][]string{"b": nil},
		StripContent: []string{"script"},
	})
	svc := newTestService(t, Options{Policy: p})

	out, err := svc.Sanitize(`<p><b>x</b></p>`)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if out != "<b>x</b>" {
		t.Fatalf("sanitize = %q", out)
	}
	if svc.Policy() != p {
		t.Fatalf("Policy() should return the configured policy")
	}
}

func TestServiceSanitizeAndEncodeHonourCeiling(t *testing.T) {
	svc := newTestService(t, Options{MaxInputBytes: 4})

	if _, err := svc.Sanitize("12345"); !errors.Is(err, store.ErrTooLarge) {
		t.Fatalf("sanitize oversize: got %v", err)
	}
	if _, err := svc.Encode("12345"); !errors.Is(err, store.ErrTooLarge) {
		t.Fatalf("encode oversize: got %v", err)
	}
	out, err := svc.Encode("<&>")
	if err != nil || out != "&lt;&amp;&gt;" {
		t.Fatalf("encode = %q, %v", out, err)
	}
}

func TestServiceListDeleteStats(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()

	for _, name := range []string{"b", "a", "c"} {
		if _, err := svc.Put(ctx, name, `<p onclick="x">`+name+`</p>`, ""); err != nil {
			t.Fatalf("put %s: %v", name, err)
		}
	}

	docs, err := svc.List(ctx, model.ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 3 || docs[0].Name != "a" || docs[2].Name != "c" {
		t.Fatalf("unexpected list: %+v", docs)
	}
	if _, err := svc.List(ctx, model.ListOptions{Limit: -1}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("negative limit: got %v", err)
	}

	st, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Documents != 3 || st.InputBytes <= st.SanitizedBytes {
		t.Fatalf("unexpected stats: %+v", st)
	}

	if err := svc.Delete(ctx, "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, "b"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("delete twice: got %v", err)
	}
	if _, err := svc.Get(ctx, "b"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("get deleted: got %v", err)
	}
}

func TestServiceMarkdown(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()

	if _, err := svc.Put(ctx, "md", `<h1>Title</h1><p>Some <strong>bold</strong> text.</p>`, ""); err != nil {
		t.Fatalf("put: %v", err)
	}
	md, err := svc.Markdown(ctx, "md")
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if !strings.Contains(md, "# Title") || !strings.Contains(md, "**bold**") {
		t.Fatalf("unexpected markdown: %q", md)
	}
	if _, err := svc.Markdown(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("markdown missing: got %v", err)
	}
}
