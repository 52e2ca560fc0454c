package profile

import (
	"context"
	"errors"
	"testing"

	"tableflip.dev/wherein/pkg/remote"
	"tableflip.dev/wherein/pkg/remote/remotetest"
	"tableflip.dev/wherein/pkg/store"
)

func newService(t *testing.T) (*Service, *remotetest.Server, *store.Drafts) {
	t.Helper()
	srv := remotetest.NewServer()
	t.Cleanup(srv.Close)
	client, err := remote.New(srv.URL)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	drafts, err := store.OpenDrafts(store.StaticConfig(srv.URL, "", t.TempDir()))
	if err != nil {
		t.Fatalf("drafts: %v", err)
	}
	return New(client, WithDrafts(drafts)), srv, drafts
}

func TestGreeting(t *testing.T) {
	if got := Greeting(nil); got != "Welcome back, User!" {
		t.Fatalf("unexpected greeting %q", got)
	}
	if got := Greeting(&Profile{Name: "  "}); got != "Welcome back, User!" {
		t.Fatalf("unexpected greeting %q", got)
	}
	if got := Greeting(&Profile{Name: "Ada"}); got != "Welcome back, Ada!" {
		t.Fatalf("unexpected greeting %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		form Form
		want error
	}{
		{name: "complete", form: Form{Name: "Ada", Email: "ada@example.com", Country: "France"}},
		{name: "bio optional", form: Form{Name: "Ada", Email: "ada@example.com", Country: "France", Bio: "hi"}},
		{name: "missing name", form: Form{Email: "ada@example.com", Country: "France"}, want: ErrIncomplete},
		{name: "blank country", form: Form{Name: "Ada", Email: "ada@example.com", Country: " "}, want: ErrIncomplete},
		{name: "bad email", form: Form{Name: "Ada", Email: "nope", Country: "France"}, want: ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.want == nil && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNewestWhenEmpty(t *testing.T) {
	svc, _, _ := newService(t)
	p, err := svc.Newest(context.Background())
	if err != nil || p != nil {
		t.Fatalf("expected no profile, got %+v (%v)", p, err)
	}
}

func TestSubmitSuccessClearsDraft(t *testing.T) {
	svc, srv, drafts := newService(t)
	ctx := context.Background()
	form := Form{Name: "Ada", Email: "ada@example.com", Country: "France", Bio: "Explorer"}
	_ = svc.SaveDraft(form)

	p, err := svc.Submit(ctx, form)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if p == nil || p.Name != "Ada" || p.Country != "France" {
		t.Fatalf("unexpected profile %+v", p)
	}
	if Greeting(p) != "Welcome back, Ada!" {
		t.Fatalf("unexpected greeting %q", Greeting(p))
	}
	if drafts.Has(DraftKey) {
		t.Fatalf("draft must be cleared after success")
	}
	if len(srv.Users()) != 1 {
		t.Fatalf("expected one stored user, got %d", len(srv.Users()))
	}
}

func TestSubmitFailurePreservesDraft(t *testing.T) {
	svc, srv, _ := newService(t)
	srv.Fail(remote.PathAddUser, 500)
	form := Form{Name: "Bo", Email: "bo@example.com", Country: "Chile"}

	if _, err := svc.Submit(context.Background(), form); err == nil {
		t.Fatalf("expected submit error")
	}
	got, ok, err := svc.Draft()
	if err != nil || !ok {
		t.Fatalf("expected preserved draft, ok=%v err=%v", ok, err)
	}
	if got != form {
		t.Fatalf("expected %+v, got %+v", form, got)
	}
}

func TestSubmitInvalidNeverPosts(t *testing.T) {
	svc, srv, _ := newService(t)
	form := Form{Name: "Cy", Country: "Kenya"}
	if _, err := svc.Submit(context.Background(), form); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
	if srv.Calls(remote.PathAddUser) != 0 {
		t.Fatalf("invalid form must not be posted")
	}
	if got, ok, _ := svc.Draft(); !ok || got != form {
		t.Fatalf("expected draft kept, got %+v", got)
	}
}

func TestSubmitRefetchFailure(t *testing.T) {
	svc, srv, drafts := newService(t)
	srv.Fail(remote.PathNewestUser, 503)
	form := Form{Name: "Di", Email: "di@example.com", Country: "Japan"}
	if _, err := svc.Submit(context.Background(), form); !errors.Is(err, ErrRefetch) {
		t.Fatalf("expected ErrRefetch, got %v", err)
	}
	if drafts.Has(DraftKey) {
		t.Fatalf("accepted submission must clear the draft")
	}
}

func TestFormMerge(t *testing.T) {
	base := Form{Name: "Ada", Email: "old@example.com", Country: "France"}
	got := base.Merge(Form{Email: "new@example.com", Bio: "hi"})
	want := Form{Name: "Ada", Email: "new@example.com", Country: "France", Bio: "hi"}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
