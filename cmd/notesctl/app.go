package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"notes-be/internal/client"
	"notes-be/internal/entities"
	"notes-be/internal/models"
	"notes-be/internal/query"
)

// session is the account half of the API client.
type session interface {
	Register(ctx context.Context, name, email, password string) (models.AuthResponse, error)
	Login(ctx context.Context, email, password string) (models.AuthResponse, error)
	Token() string
	SetToken(token string)
}

type app struct {
	session session
	store   *client.Store
	in      *bufio.Reader
	out     io.Writer
	search  *client.Debouncer
	ctx     context.Context
}

func newApp(s session, store *client.Store, in *bufio.Reader, out io.Writer) *app {
	a := &app{session: s, store: store, in: in, out: out, ctx: context.Background()}
	a.search = client.NewDebouncer(client.SearchDelay, a.commitSearch)
	return a
}

func (a *app) close() {
	a.search.Stop()
}

func (a *app) loggedIn() bool {
	return a.session.Token() != ""
}

func (a *app) status() string {
	if a.loggedIn() {
		return "logged in"
	}
	return "not logged in"
}

func (a *app) register(ctx context.Context) error {
	name, err := prompt(a.in, a.out, "Name")
	if err != nil {
		return err
	}
	email, err := prompt(a.in, a.out, "Email")
	if err != nil {
		return err
	}
	password, err := promptPassword(a.out)
	if err != nil {
		return err
	}
	resp, err := a.session.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered as %s\n", resp.User.Email)
	return nil
}

func (a *app) login(ctx context.Context) error {
	email, err := prompt(a.in, a.out, "Email")
	if err != nil {
		return err
	}
	password, err := promptPassword(a.out)
	if err != nil {
		return err
	}
	resp, err := a.session.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome back, %s\n", resp.User.Name)
	return nil
}

func (a *app) logout() {
	a.session.SetToken("")
	a.store.Dispatch(client.SetNotes{Pagination: query.NewPagination(1, query.DefaultLimit, 0)})
	fmt.Fprintln(a.out, "Logged out")
}

func (a *app) list(ctx context.Context, args []string) error {
	page := query.DefaultPage
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid page %q", args[0])
		}
		page = n
	}
	if err := a.store.FetchNotes(ctx, page); err != nil {
		return err
	}
	a.printList(a.store.State())
	return nil
}

// searchFor queues a search; only the last query typed within SearchDelay runs.
func (a *app) searchFor(args []string) {
	a.search.Push(strings.Join(args, " "))
}

func (a *app) commitSearch(text string) {
	f := a.store.State().Filters
	f.Search = text
	if err := a.store.SetFilters(a.ctx, f); err != nil {
		if !errors.Is(err, client.ErrStale) {
			fmt.Fprintln(a.out, "Error:", err)
		}
		return
	}
	a.printList(a.store.State())
}

func (a *app) filterTags(ctx context.Context, args []string) error {
	f := a.store.State().Filters
	f.Tags = query.SplitTags(strings.Join(args, ","))
	if err := a.store.SetFilters(ctx, f); err != nil {
		return err
	}
	a.printList(a.store.State())
	return nil
}

func (a *app) show(ctx context.Context, id string) error {
	n, err := a.store.FetchNote(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\n%s\ntags: %s  color: %s  pinned: %t  archived: %t  version: %d\n",
		n.Title, n.Content, strings.Join(n.Tags, ", "), n.Color, n.IsPinned, n.IsArchived, n.Version)
	return nil
}

func (a *app) create(ctx context.Context) error {
	title, err := prompt(a.in, a.out, "Title")
	if err != nil {
		return err
	}
	content, err := prompt(a.in, a.out, "Content")
	if err != nil {
		return err
	}
	tags, err := prompt(a.in, a.out, "Tags (comma separated)")
	if err != nil {
		return err
	}
	n, err := a.store.CreateNote(ctx, models.CreateNoteRequest{Title: title, Content: content, Tags: query.SplitTags(tags)})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s\n", n.ID)
	return nil
}

func (a *app) edit(ctx context.Context, id string) error {
	title, err := prompt(a.in, a.out, "Title (empty to keep)")
	if err != nil {
		return err
	}
	content, err := prompt(a.in, a.out, "Content (empty to keep)")
	if err != nil {
		return err
	}
	var req models.UpdateNoteRequest
	if title != "" {
		req.Title = &title
	}
	if content != "" {
		req.Content = &content
	}
	n, err := a.store.UpdateNote(ctx, id, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s (version %d)\n", n.ID, n.Version)
	return nil
}

func (a *app) pin(ctx context.Context, id string) error {
	n, err := a.store.TogglePin(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s pinned: %t\n", n.ID, n.IsPinned)
	return nil
}

func (a *app) archive(ctx context.Context, id string) error {
	n, err := a.store.ToggleArchive(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s archived: %t\n", n.ID, n.IsArchived)
	return nil
}

func (a *app) remove(ctx context.Context, id string) error {
	if err := a.store.DeleteNote(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", id)
	return nil
}

func (a *app) printList(st client.State) {
	if len(st.Notes) == 0 {
		fmt.Fprintln(a.out, "No notes")
		return
	}
	for _, n := range st.Notes {
		fmt.Fprintln(a.out, formatNote(n))
	}
	p := st.Pagination
	fmt.Fprintf(a.out, "page %d/%d, %d notes\n", p.CurrentPage, p.TotalPages, p.TotalNotes)
}

func formatNote(n *entities.Note) string {
	mark := " "
	if n.IsPinned {
		mark = "*"
	}
	line := fmt.Sprintf("%s %s  %s", mark, n.ID, n.Title)
	if len(n.Tags) > 0 {
		line += "  [" + strings.Join(n.Tags, ", ") + "]"
	}
	return line
}
