package icons

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFS records every probe made through it.
type countingFS struct {
	OSFS

	mu    sync.Mutex
	stats map[string]int
	opens map[string]int
}

func newCountingFS() *countingFS {
	return &countingFS{stats: make(map[string]int), opens: make(map[string]int)}
}

func (c *countingFS) Stat(name string) (fs.FileInfo, error) {
	c.mu.Lock()
	c.stats[name]++
	c.mu.Unlock()
	return c.OSFS.Stat(name)
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.mu.Lock()
	c.opens[name]++
	c.mu.Unlock()
	return c.OSFS.Open(name)
}

func (c *countingFS) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.stats {
		n += v
	}
	for _, v := range c.opens {
		n += v
	}
	return n
}

func (c *countingFS) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = make(map[string]int)
	c.opens = make(map[string]int)
}

// fixture is a fake XDG tree rooted in a temp dir.
type fixture struct {
	t    *testing.T
	root string
	env  Env
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	return &fixture{
		t:    t,
		root: root,
		env: Env{
			Home:       filepath.Join(root, "home"),
			DataHome:   filepath.Join(root, "home", ".local", "share"),
			DataDirs:   []string{filepath.Join(root, "usr", "share")},
			PixmapDirs: []string{filepath.Join(root, "usr", "share", "pixmaps")},
		},
	}
}

func (f *fixture) systemIcons() string { return filepath.Join(f.root, "usr", "share", "icons") }
func (f *fixture) userIcons() string   { return filepath.Join(f.env.DataHome, "icons") }

func (f *fixture) write(path, content string) string {
	f.t.Helper()
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(f.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (f *fixture) theme(iconRoot, name, index string) {
	f.t.Helper()
	f.write(filepath.Join(iconRoot, name, IndexFile), index)
}

func (f *fixture) icon(iconRoot, theme, dir, file string) string {
	f.t.Helper()
	return f.write(filepath.Join(iconRoot, theme, dir, file), "img")
}

func (f *fixture) resolver(opts ...Option) (*Resolver, *countingFS) {
	cfs := newCountingFS()
	return NewResolver(NewSearchPath(f.env), append([]Option{WithFS(cfs)}, opts...)...), cfs
}

func TestResolveEmptyName(t *testing.T) {
	t.Parallel()

	r, _ := newFixture(t).resolver()
	_, _, err := r.Resolve("", "Papirus")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestResolveMissCachedWithoutProbing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.theme(f.systemIcons(), HiColor, "[Icon Theme]\nDirectories=48x48/apps\n")
	r, cfs := f.resolver()

	path, ok, err := r.Resolve("no-such-icon", "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, path)
	assert.Positive(t, cfs.total())

	cfs.reset()
	path, ok, err = r.Resolve("no-such-icon", "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, path)
	assert.Zero(t, cfs.total(), "cached miss must not touch the filesystem")
}

func TestResolveInheritedScalableApps(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.theme(f.systemIcons(), "A", "[Icon Theme]\nInherits=B\nDirectories=48x48/apps\n")
	f.theme(f.systemIcons(), "B", "[Icon Theme]\nInherits=C\nDirectories=48x48/apps\n")
	f.theme(f.systemIcons(), "C", "[Icon Theme]\nDirectories=48x48/apps\n")
	want := f.icon(f.systemIcons(), "C", ScalableApps, "deep.svg")
	r, _ := f.resolver()

	path, ok, err := r.Resolve("deep", "A")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, path)
}

func TestResolveHintBeatsHiColor(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.theme(f.systemIcons(), HiColor, "[Icon Theme]\nDirectories=48x48/apps\n")
	f.theme(f.systemIcons(), "Papirus", "[Icon Theme]\nInherits=hicolor\nDirectories=48x48/apps\n")
	f.icon(f.systemIcons(), HiColor, "48x48/apps", "firefox.png")
	want := f.icon(f.systemIcons(), "Papirus", "48x48/apps", "firefox.png")
	r, _ := f.resolver()

	path, ok, err := r.Resolve("firefox", "Papirus")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, path)

	// Without the hint only hicolor is searched.
	path, ok, err = r.Resolve("firefox", "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(f.systemIcons(), HiColor, "48x48/apps", "firefox.png"), path)
}

func TestResolvePrefersPNG(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.theme(f.systemIcons(), HiColor, "[Icon Theme]\nDirectories=apps\n")
	f.icon(f.systemIcons(), HiColor, "apps", "term.svg")
	f.icon(f.systemIcons(), HiColor, "apps", "term.xpm")
	want := f.icon(f.systemIcons(), HiColor, "apps", "term.png")

	for range 5 {
		r, _ := f.resolver()
		path, ok, err := r.Resolve("term", "")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, want, path)
	}
}

func TestResolveDirectoryOrder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.theme(f.systemIcons(), HiColor, "[Icon Theme]\nDirectories=64x64/apps,32x32/apps\n")
	f.icon(f.systemIcons(), HiColor, "32x32/apps", "mail.png")
	want := f.icon(f.systemIcons(), HiColor, "64x64/apps", "mail.svg")
	r, _ := f.resolver()

	path, ok, err := r.Resolve("mail", "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, path, "directory order beats extension preference")
}

func TestResolveUserRootFirst(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.theme(f.systemIcons(), HiColor, "[Icon Theme]\nDirectories=48x48/apps\n")
	f.icon(f.systemIcons(), HiColor, "48x48/apps", "editor.png")
	// The user copy of hicolor has no index.theme and borrows the system one's directories.
	want := f.icon(f.userIcons(), HiColor, "48x48/apps", "editor.png")
	r, _ := f.resolver()

	path, ok, err := r.Resolve("editor", "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, path)
}

func TestResolveNearestThemeBeatsRootPriority(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.theme(f.systemIcons(), "Child", "[Icon Theme]\nInherits=Parent\nDirectories=apps\n")
	want := f.icon(f.systemIcons(), "Child", "apps", "x.xpm")
	f.theme(f.userIcons(), "Parent", "[Icon Theme]\nDirectories=apps\n")
	f.icon(f.userIcons(), "Parent", "apps", "x.png")
	r, _ := f.resolver()

	path, ok, err := r.Resolve("x", "Child")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, path)
}

func TestResolveIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.theme(f.systemIcons(), HiColor, "[Icon Theme]\nDirectories=apps\n")
	f.icon(f.systemIcons(), HiColor, "apps", "calc.svg")
	r, _ := f.resolver()

	p1, ok1, err1 := r.Resolve("calc", "Missing")
	p2, ok2, err2 := r.Resolve("calc", "Missing")
	assert.Equal(t, p1, p2)
	assert.Equal(t, ok1, ok2)
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.True(t, ok1)
}

func TestResolveInheritanceCycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.theme(f.systemIcons(), "A", "[Icon Theme]\nInherits=B\nDirectories=apps\n")
	f.theme(f.systemIcons(), "B", "[Icon Theme]\nInherits=A,B\nDirectories=apps\n")
	r, cfs := f.resolver()

	_, ok, err := r.Resolve("ghost", "A")
	require.NoError(t, err)
	assert.False(t, ok)

	for path, n := range cfs.stats {
		assert.Equal(t, 1, n, "probed twice: %s", path)
	}
	for path, n := range cfs.opens {
		assert.Equal(t, 1, n, "parsed twice: %s", path)
	}
	assert.Equal(t, []string{"A", "B", HiColor}, r.Chain("A"))
}

func TestResolveAbsolutePath(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	abs := f.write(filepath.Join(f.root, "opt", "app", "logo.png"), "img")
	r, cfs := f.resolver()

	path, ok, err := r.Resolve(abs, "Papirus")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, abs, path)
	assert.Equal(t, 1, cfs.total(), "only the file itself is checked")
	assert.Zero(t, r.Cache().Len())

	missing := filepath.Join(f.root, "opt", "app", "gone.png")
	_, ok, err = r.Resolve(missing, "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, cfs.opens, "no theme descriptor read for absolute names")
}

func TestResolvePixmapFallback(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	want := f.write(filepath.Join(f.env.PixmapDirs[0], "legacy.xpm"), "img")
	r, _ := f.resolver()

	path, ok, err := r.Resolve("legacy", "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, path)
}

func TestResolveBareFallback(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	want := f.write(filepath.Join(f.env.DataDirs[0], "odd.png"), "img")

	r, _ := f.resolver()
	_, ok, err := r.Resolve("odd", "")
	require.NoError(t, err)
	assert.False(t, ok, "bare fallback is off by default")

	r, _ = f.resolver(WithBareFallback(true))
	path, ok, err := r.Resolve("odd", "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, path)
}

func TestResolveConcurrentSameKey(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.theme(f.systemIcons(), HiColor, "[Icon Theme]\nDirectories=apps\n")
	want := f.icon(f.systemIcons(), HiColor, "apps", "shared.png")
	r, _ := f.resolver()

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			path, ok, err := r.Resolve("shared", "")
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, want, path)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, r.Cache().Len())
}

func TestChainOrder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.theme(f.systemIcons(), "A", "[Icon Theme]\nInherits=B,hicolor,C\n")
	f.theme(f.systemIcons(), "B", "[Icon Theme]\nInherits=D\n")
	f.theme(f.systemIcons(), "C", "[Icon Theme]\nInherits=D\n")
	f.theme(f.systemIcons(), "D", "[Icon Theme]\n")
	r, _ := f.resolver()

	assert.Equal(t, []string{"A", "B", "D", "C", HiColor}, r.Chain("A"))
	assert.Equal(t, []string{HiColor}, r.Chain(""))
	assert.Equal(t, []string{HiColor}, r.Chain(HiColor))
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.theme(f.systemIcons(), "Papirus", "[Icon Theme]\nName=Papirus\nInherits=breeze\n")
	r, _ := f.resolver()

	d, path, ok := r.Describe("Papirus")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(f.systemIcons(), "Papirus", IndexFile), path)
	assert.Equal(t, "Papirus", d.Name)
	assert.Equal(t, []string{"breeze"}, d.Inherits)

	_, _, ok = r.Describe("Nope")
	assert.False(t, ok)
}
