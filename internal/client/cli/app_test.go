package cli

import (
	"bytes"
	"context"
	"errors"
	"image"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/jarcover/internal/client/features/app"
	"github.com/dmitrijs2005/jarcover/internal/client/features/campaigns"
	"github.com/dmitrijs2005/jarcover/internal/client/features/details"
	"github.com/dmitrijs2005/jarcover/internal/client/features/templates"
	"github.com/dmitrijs2005/jarcover/internal/client/models"
	"github.com/dmitrijs2005/jarcover/internal/client/money"
	"github.com/dmitrijs2005/jarcover/internal/client/services"
	"github.com/dmitrijs2005/jarcover/internal/client/store"
	"github.com/dmitrijs2005/jarcover/internal/client/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type memRepo struct {
	mu    sync.Mutex
	saved []models.Campaigns
}

func (r *memRepo) Save(ctx context.Context, cs models.Campaigns) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, cs)
	return nil
}

func (r *memRepo) last() models.Campaigns {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saved) == 0 {
		return nil
	}
	return r.saved[len(r.saved)-1]
}

type stubJars struct{}

func (stubJars) LoadProgress(ctx context.Context, link string) (models.JarDetails, error) {
	return models.JarDetails{Amount: 50_000, Status: models.JarStatusActive}, nil
}

type stubImages struct{ err error }

func (s stubImages) Load(ctx context.Context, path string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("photo:" + path), nil
}

type stubRenderer struct{}

func (stubRenderer) Render(ctx context.Context, c models.Campaign) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

type stubLibrary struct {
	mu     sync.Mutex
	status models.PermissionStatus
	saved  int
}

func (l *stubLibrary) RequestPermission(ctx context.Context) (models.PermissionStatus, error) {
	return l.status, nil
}

func (l *stubLibrary) SaveImage(ctx context.Context, img image.Image) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.saved++
	return nil
}

func (l *stubLibrary) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.saved
}

type testEnv struct {
	app  *App
	out  *syncBuffer
	repo *memRepo
	lib  *stubLibrary
}

func newTestEnv(t *testing.T, cs models.Campaigns, debounce time.Duration) *testEnv {
	t.Helper()

	format := money.MustFormat("en", "USD")
	lib := &stubLibrary{status: models.PermissionAuthorized}
	repo := &memRepo{}

	df := &details.Feature{
		Renderer: stubRenderer{},
		Library:  lib,
		Settings: services.LogSettingsOpener{},
		Images:   stubImages{},
		Format:   format,
		Catalog:  templates.Catalog(),
	}
	root := &app.Feature{
		List: &campaigns.Feature{
			Details:  df,
			Jars:     stubJars{},
			Repo:     repo,
			Clock:    store.RealClock(),
			Debounce: debounce,
		},
		Details: df,
	}

	st := store.New(app.NewState(cs), root.Reduce)
	t.Cleanup(st.Close)

	a := newApp(st, format, models.Size{Width: 100, Height: 100}, nil)
	out := &syncBuffer{}
	a.out = out
	return &testEnv{app: a, out: out, repo: repo, lib: lib}
}

func (e *testEnv) run(t *testing.T, lines ...string) {
	t.Helper()
	for _, line := range lines {
		cmd, rest := splitCommand(line)
		require.NoError(t, e.app.Execute(context.Background(), cmd, rest), line)
	}
}

func (e *testEnv) form(t *testing.T) details.State {
	t.Helper()
	f, ok := currentForm(e.app.store.State())
	require.True(t, ok, "no form on screen")
	return f.state
}

func (e *testEnv) screen() screen { return screenOf(e.app.store.State()) }

func readyCampaign(purpose string) models.Campaign {
	target := int64(100_000)
	tmpl := templates.Catalog()[0]
	return models.Campaign{
		ID:       uuid.New(),
		Purpose:  purpose,
		Target:   &target,
		Image:    models.NewImage([]byte("photo")),
		Template: &tmpl,
		Jar:      &models.Jar{Link: "https://send.monobank.ua/jar/abc"},
	}
}

func TestApp_CreateAndSaveCampaign(t *testing.T) {
	env := newTestEnv(t, nil, time.Millisecond)

	env.run(t, "new")
	require.Equal(t, screenAdd, env.screen())

	env.run(t,
		"purpose Help the army",
		"target 1,000",
		"link https://send.monobank.ua/jar/abc",
		"image /tmp/photo.png",
	)
	env.app.store.Wait()
	require.NotNil(t, env.form(t).Campaign.Image)
	assert.Contains(t, env.out.String(), "Image loaded.")

	env.run(t, "template")
	require.Equal(t, screenTemplates, env.screen())

	env.run(t, "pick 1", "drag 10 5", "pinch 2")
	ts, ok := env.form(t).Templates()
	require.True(t, ok)
	assert.Equal(t, models.Point{X: 10, Y: 5}, ts.Campaign.Image.Offset)
	assert.Equal(t, 2.0, ts.Campaign.Image.Scale)

	env.run(t, "apply")
	require.Equal(t, screenAdd, env.screen())
	require.NotNil(t, env.form(t).Campaign.Template)

	env.run(t, "save")
	env.app.store.Wait()

	st := env.app.store.State()
	assert.Nil(t, st.List.AddCampaign)
	require.Len(t, st.List.Campaigns, 1)

	c := st.List.Campaigns[0]
	assert.Equal(t, "Help the army", c.Purpose)
	require.NotNil(t, c.Target)
	assert.Equal(t, int64(100_000), *c.Target)
	assert.Equal(t, templates.Catalog()[0].Name, c.Template.Name)
	assert.Equal(t, 2.0, c.Image.Scale)
	assert.Equal(t, models.Point{X: 10, Y: 5}, c.Image.Offset)

	assert.Equal(t, 1, env.lib.count())
	require.Len(t, env.repo.last(), 1)
	assert.Contains(t, env.out.String(), `Cover saved for "Help the army".`)
}

func TestApp_TargetValidatedWhenFocusLeaves(t *testing.T) {
	env := newTestEnv(t, nil, time.Millisecond)

	env.run(t, "new", "target abc")
	assert.Empty(t, env.form(t).ValidationErrors.Target)
	assert.Equal(t, validation.FieldTarget, env.form(t).Focus)

	env.run(t, "purpose Drones")
	assert.Equal(t, []validation.Code{validation.InvalidFormat}, env.form(t).ValidationErrors.Target)
	assert.Contains(t, env.out.String(), "invalid number format")
}

func TestApp_SaveInvalidFormShowsAllErrors(t *testing.T) {
	env := newTestEnv(t, nil, time.Millisecond)

	env.run(t, "new", "purpose Drones", "save")
	env.app.store.Wait()

	s := env.form(t)
	assert.False(t, s.IsFormValid)
	assert.Equal(t, validation.FieldNone, s.Focus)
	assert.Empty(t, s.ValidationErrors.Name)
	assert.Empty(t, s.ValidationErrors.Target, "an empty target is allowed")
	assert.Empty(t, s.ValidationErrors.Link)
	assert.Equal(t, []validation.Code{validation.MissingImage}, s.ValidationErrors.Image)
	assert.Equal(t, []validation.Code{validation.MissingTemplate}, s.ValidationErrors.Template)
	assert.Zero(t, env.lib.count())
}

func TestApp_SaveReportsUnparsableTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantErr bool
		want    []validation.Code
	}{
		{name: "letters", target: "target abc", want: []validation.Code{validation.InvalidFormat}},
		{name: "cleared", target: "target", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil, time.Millisecond)
			env.run(t, "new", tt.target)

			err := env.app.Execute(context.Background(), "save", "")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "nothing to save")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, env.form(t).ValidationErrors.Target)
			assert.Contains(t, env.out.String(), "invalid number format")
			assert.Zero(t, env.lib.count())
		})
	}
}

func TestApp_OpenAndDeleteCampaign(t *testing.T) {
	c := readyCampaign("Medkits")
	env := newTestEnv(t, models.Campaigns{c}, time.Millisecond)

	env.run(t, "list")
	assert.Contains(t, env.out.String(), "1. Medkits | target ")
	assert.Contains(t, env.out.String(), "1,000")

	env.run(t, "open 1")
	require.Equal(t, screenEdit, env.screen())

	env.run(t, "delete")
	require.Equal(t, screenAlert, env.screen())
	assert.Contains(t, env.out.String(), "Delete this campaign?")

	env.run(t, "yes")
	env.app.store.Wait()

	st := env.app.store.State()
	assert.Empty(t, st.List.Campaigns)
	assert.Empty(t, st.Path)
	assert.Equal(t, screenList, env.screen())
	assert.Empty(t, env.repo.last())
}

func TestApp_PermissionDeniedShowsAlert(t *testing.T) {
	c := readyCampaign("Medkits")
	env := newTestEnv(t, models.Campaigns{c}, time.Millisecond)
	env.lib.status = models.PermissionDenied

	env.run(t, "open 1", "purpose Medkits for the front", "save")
	env.app.store.Wait()

	require.Equal(t, screenAlert, env.screen())
	al, ok := env.form(t).Alert()
	require.True(t, ok)
	assert.Equal(t, details.AlertPhotoLibraryDenied, al.Kind)
	assert.Equal(t, 1, strings.Count(env.out.String(), al.Title()))

	env.run(t, "no")
	assert.Equal(t, screenEdit, env.screen())
	assert.False(t, env.form(t).IsSaving)
	assert.Zero(t, env.lib.count())
}

func TestApp_BackClosesInnermostLayer(t *testing.T) {
	env := newTestEnv(t, models.Campaigns{readyCampaign("A")}, time.Millisecond)

	env.run(t, "open 1", "template")
	require.Equal(t, screenTemplates, env.screen())

	env.run(t, "close")
	require.Equal(t, screenEdit, env.screen())

	env.run(t, "back")
	require.Equal(t, screenList, env.screen())

	env.run(t, "new")
	require.Equal(t, screenAdd, env.screen())
	env.run(t, "back")
	require.Equal(t, screenList, env.screen())
	assert.Len(t, env.app.store.State().List.Campaigns, 1)
}

func TestApp_CommandErrors(t *testing.T) {
	env := newTestEnv(t, models.Campaigns{readyCampaign("A")}, time.Millisecond)
	ctx := context.Background()

	tests := []struct {
		name    string
		setup   []string
		line    string
		wantErr error
	}{
		{name: "unknown", line: "bogus", wantErr: ErrUnknownCommand},
		{name: "form command on list", line: "save", wantErr: ErrNotHere},
		{name: "picker command on list", line: "pick 1", wantErr: ErrNotHere},
		{name: "alert answer on list", line: "yes", wantErr: ErrNotHere},
		{name: "back on list", line: "back", wantErr: ErrNotHere},
		{name: "open out of range", line: "open 5", wantErr: ErrUsage},
		{name: "new while editing", setup: []string{"open 1"}, line: "new", wantErr: ErrNotHere},
		{name: "focus without field", line: "focus", wantErr: ErrUsage},
		{name: "drag without numbers", setup: []string{"template"}, line: "drag 1", wantErr: ErrUsage},
	}

	// Cases share env and run in order; setup steps carry over.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.run(t, tt.setup...)
			cmd, rest := splitCommand(tt.line)
			err := env.app.Execute(ctx, cmd, rest)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApp_ApplyNeedsChoice(t *testing.T) {
	env := newTestEnv(t, nil, time.Millisecond)

	env.run(t, "new", "template")
	require.Equal(t, screenTemplates, env.screen())

	err := env.app.Execute(context.Background(), "apply", "")
	require.ErrorIs(t, err, ErrNoChoice)
	assert.Equal(t, screenTemplates, env.screen())
}

func TestApp_GestureNeedsPhoto(t *testing.T) {
	env := newTestEnv(t, nil, time.Millisecond)

	env.run(t, "new", "template")
	err := env.app.Execute(context.Background(), "pinch", "2")
	require.ErrorIs(t, err, ErrNoPhoto)
}

func TestApp_ImageLoadFailureIsReported(t *testing.T) {
	env := newTestEnv(t, nil, time.Millisecond)

	env.run(t, "new")
	env.app.store.Send(app.List{Action: campaigns.AddCampaign{
		ID:     env.app.store.State().List.AddCampaignID,
		Action: details.ImageLoaded{Err: errors.New("not an image")},
	}})

	assert.Nil(t, env.form(t).Campaign.Image)
	assert.Contains(t, env.out.String(), "Could not load image: not an image")
}

func TestApp_HelpFollowsScreen(t *testing.T) {
	env := newTestEnv(t, models.Campaigns{readyCampaign("A")}, time.Millisecond)

	assert.Contains(t, env.app.Help(), "open <n>")
	env.run(t, "open 1")
	assert.Contains(t, env.app.Help(), "target <amount>")
	env.run(t, "template")
	assert.Contains(t, env.app.Help(), "pinch <factor>")
	env.run(t, "close", "delete")
	assert.Equal(t, "Available commands: yes, no", env.app.Help())
	assert.Equal(t, "jarcover (alert)> ", env.app.prompt())
}

func TestApp_RunRefreshesAndFlushesOnExit(t *testing.T) {
	capturePrintln(t)

	c := readyCampaign("Medkits")
	c.Jar = nil
	env := newTestEnv(t, nil, time.Hour)

	env.app.store.Send(app.List{Action: campaigns.Upsert{Campaign: c}})
	require.True(t, env.app.store.State().List.HasUnsavedChanges())

	env.app.in = strings.NewReader("list\nexit\n")
	env.app.Run(context.Background())

	require.Len(t, env.repo.last(), 1)
	assert.Equal(t, "Medkits", env.repo.last()[0].Purpose)
	assert.Contains(t, env.out.String(), "Welcome to jarcover")
}
