package orm

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/kbukum/seedkit/database"
	"github.com/kbukum/seedkit/errors"
	"github.com/kbukum/seedkit/fixture"
	"github.com/kbukum/seedkit/logger"
	"github.com/kbukum/seedkit/testutil"
)

var schema = []string{
	`CREATE TABLE users (id TEXT PRIMARY KEY, name TEXT NOT NULL, email TEXT)`,
	`CREATE TABLE posts (id TEXT PRIMARY KEY, title TEXT, tags TEXT, author_id TEXT NOT NULL REFERENCES users(id))`,
	`CREATE TABLE schema_migrations (version TEXT PRIMARY KEY)`,
}

const usersYAML = `SymfonYaml\CoreBundle\Entity\User:
  data:
    order: 1
    fixtures:
      admin:
        name: Admin
        email: admin@example.com
      editor:
        id: u-editor
        name: Editor
`

const postsYAML = `App\Entity\Post:
  data:
    order: 2
    fixtures:
      welcome:
        id: p-1
        title: Hello
        tags: [intro, news]
        author_id: "@admin"
      second:
        id: p-2
        title: "@@mention"
        author_id: "@editor.id"
`

func newLoader(t *testing.T, files map[string]string, dbs ...*database.DB) *fixture.Loader {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	provider, err := NewProvider("", nil, dbs...)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	dir := fixture.NewDirectory()
	if err := dir.Register(fixture.BackendORM, NewBinding(provider, "schema_migrations")); err != nil {
		t.Fatal(err)
	}
	l, err := fixture.NewLoader(fixture.Config{
		Modules:       []string{"blog"},
		Locations:     map[string]string{"blog": "/src/blog"},
		RootNamespace: "App",
	}, dir, fixture.WithFs(fs), fixture.WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	return l
}

type userRow struct {
	ID    string
	Name  string
	Email string
}

type postRow struct {
	ID       string
	Title    string
	Tags     string
	AuthorID string
}

func TestLoad_UsersAndPosts(t *testing.T) {
	db := testutil.NewSQLite(t, schema...)
	l := newLoader(t, map[string]string{
		"/src/blog/fixtures/posts.yml": postsYAML,
		"/src/blog/fixtures/users.yml": usersYAML,
	}, db)
	ctx := context.Background()

	report, err := l.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if report.Entities != 4 {
		t.Errorf("entities = %d, want 4", report.Entities)
	}

	var admin userRow
	if err := db.WithContext(ctx).Table("users").Where("name = ?", "Admin").Take(&admin).Error; err != nil {
		t.Fatalf("query admin: %v", err)
	}
	if len(admin.ID) != 36 {
		t.Errorf("admin id %q is not a generated UUID", admin.ID)
	}

	var posts []postRow
	if err := db.WithContext(ctx).Table("posts").Order("id").Find(&posts).Error; err != nil {
		t.Fatalf("query posts: %v", err)
	}
	want := []postRow{
		{ID: "p-1", Title: "Hello", Tags: `["intro","news"]`, AuthorID: admin.ID},
		{ID: "p-2", Title: "@mention", AuthorID: "u-editor"},
	}
	if diff := cmp.Diff(want, posts); diff != "" {
		t.Errorf("posts mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileRollsBackOnFailure(t *testing.T) {
	db := testutil.NewSQLite(t, schema...)
	l := newLoader(t, map[string]string{
		"/src/blog/fixtures/users.yml": `App\Entity\User:
  data:
    fixtures:
      ok: {id: u-1, name: Fine}
      broken: {id: u-2}
`,
	}, db)

	_, err := l.Load(context.Background())
	if !errors.IsCode(err, errors.ErrCodeLoad) {
		t.Fatalf("expected LOAD_FAILED, got %v", err)
	}
	n, _ := db.CountRows(context.Background(), "users")
	if n != 0 {
		t.Errorf("users has %d rows; the file's transaction should have rolled back", n)
	}
}

func TestPurge_TruncateFallsBackOnSQLite(t *testing.T) {
	db := testutil.NewSQLite(t, schema...)
	ctx := context.Background()
	l := newLoader(t, map[string]string{
		"/src/blog/fixtures/posts.yml": postsYAML,
		"/src/blog/fixtures/users.yml": usersYAML,
	}, db)
	if _, err := l.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if err := db.WithContext(ctx).Exec(`INSERT INTO schema_migrations VALUES ('1')`).Error; err != nil {
		t.Fatal(err)
	}

	purged, err := l.Purge(ctx, fixture.PurgeOptions{Backend: fixture.BackendORM, Truncate: true})
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if diff := cmp.Diff([]string{"test"}, purged); diff != "" {
		t.Errorf("purged mismatch (-want +got):\n%s", diff)
	}
	for table, want := range map[string]int64{"users": 0, "posts": 0, "schema_migrations": 1} {
		if n, _ := db.CountRows(ctx, table); n != want {
			t.Errorf("%s rows = %d, want %d", table, n, want)
		}
	}
	if on, _ := db.ForeignKeysEnabled(ctx); !on {
		t.Error("foreign keys left disabled after purge")
	}
}

func TestLoad_PurgeThenReload(t *testing.T) {
	db := testutil.NewSQLite(t, schema...)
	ctx := context.Background()
	l := newLoader(t, map[string]string{
		"/src/blog/fixtures/posts.yml": postsYAML,
		"/src/blog/fixtures/users.yml": usersYAML,
	}, db)

	for i := 0; i < 2; i++ {
		if _, err := l.Run(ctx, fixture.LoadOptions{Purge: true}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if n, _ := db.CountRows(ctx, "posts"); n != 2 {
		t.Errorf("posts = %d after reload, want 2", n)
	}
}

func TestFixture_Table(t *testing.T) {
	db := testutil.NewSQLite(t)
	tests := []struct {
		model string
		table string
		want  string
	}{
		{`App\Entity\User`, "", "users"},
		{`App\Entity\BlogPost`, "", "blog_posts"},
		{`App\Entity\User`, "members", "members"},
	}
	for _, tc := range tests {
		data := fixture.MapOf(fixture.KeyTable, tc.table, fixture.KeyFixtures, fixture.NewMap())
		f, err := NewFixture(&fixture.Record{Model: tc.model, Data: data})
		if err != nil {
			t.Fatal(err)
		}
		if got := f.(*Fixture).Table(db); got != tc.want {
			t.Errorf("Table(%s, %q) = %q, want %q", tc.model, tc.table, got, tc.want)
		}
	}
}

func TestNewFixture_RejectsNonMappingEntry(t *testing.T) {
	data := fixture.MapOf(fixture.KeyFixtures, fixture.MapOf("bad", []any{1, 2}))
	if _, err := NewFixture(&fixture.Record{Model: "X", Data: data}); err == nil {
		t.Error("expected error for a list entry")
	}
	data = fixture.MapOf(fixture.KeyFixtures, "nope")
	if _, err := NewFixture(&fixture.Record{Model: "X", Data: data}); err == nil {
		t.Error("expected error for scalar fixtures")
	}
}

func TestColumnValues(t *testing.T) {
	got, err := columnValues(map[string]any{
		"name": "x",
		"n":    3,
		"meta": map[string]any{"a": 1},
		"list": []any{"a", "b"},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"name": "x", "n": 3, "meta": `{"a":1}`, "list": `["a","b"]`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("columnValues mismatch (-want +got):\n%s", diff)
	}
}
