package combine

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const output = "/work/out/codebase.xml"

func readOutput(t *testing.T, fs afero.Fs) *Document {
	t.Helper()
	f, err := fs.Open(output)
	require.NoError(t, err)
	defer f.Close()

	doc, err := Decode(f)
	require.NoError(t, err)
	return doc
}

func TestRunScenario(t *testing.T) {
	fs := newFS(t, map[string]string{
		"/work/src/a.py":  "print(1)",
		"/work/src/b.txt": "ignore me",
		"/work/extra.js":  "console.log(1)",
	})

	res, err := Run(fs, Options{
		InputDir: "/work/src",
		Files:    []string{"/work/extra.js"},
		Output:   output,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, Result{Output: output, Files: 2}, res)

	doc := readOutput(t, fs)
	assert.Equal(t, []FileRecord{
		{Filename: "extra.js", Filepath: "/work/extra.js", Contents: "console.log(1)"},
		{Filename: "a.py", Filepath: "/work/src/a.py", Contents: "print(1)"},
	}, doc.Records)

	_, ok := doc.Lookup("/work/src/b.txt")
	assert.False(t, ok)
}

func TestRunExplicitFileAlsoScannedAppearsOnce(t *testing.T) {
	fs := newFS(t, map[string]string{
		"/work/src/a.py": "a",
		"/work/src/b.py": "b",
	})

	res, err := Run(fs, Options{
		InputDir: "/work/src",
		Files:    []string{"/work/src/b.py", "/work/src/b.py"},
		Output:   output,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Files)

	doc := readOutput(t, fs)
	count := 0
	for _, r := range doc.Records {
		if r.Filepath == "/work/src/b.py" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, "/work/src/b.py", doc.Records[0].Filepath)
}

func TestRunRoundTripsSpecialCharacters(t *testing.T) {
	content := "<script>if (a < b && c > d) { x = \"]]>\"; }</script>\r\n\t'&amp;'\n"
	fs := newFS(t, map[string]string{"/work/src/page.jsx": content})

	_, err := Run(fs, Options{InputDir: "/work/src", Output: output}, nil)
	require.NoError(t, err)

	rec, ok := readOutput(t, fs).Lookup("/work/src/page.jsx")
	require.True(t, ok)
	assert.Equal(t, content, rec.Contents)
}

func TestRunFatalErrorsWriteNothing(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{
			name: "missing directory",
			opts: Options{InputDir: "/work/missing", Output: output},
			want: ErrInvalidDirectory,
		},
		{
			name: "missing explicit file",
			opts: Options{InputDir: "/work/src", Files: []string{"/work/nope.py"}, Output: output},
			want: ErrPathNotFound,
		},
		{
			name: "unreadable file under fail policy",
			opts: Options{InputDir: "/work/src", Output: output, ReadPolicy: ReadPolicyFail},
			want: ErrFileRead,
		},
		{
			name: "no input",
			opts: Options{Output: output},
			want: ErrNoInput,
		},
		{
			name: "no output",
			opts: Options{InputDir: "/work/src"},
			want: ErrOutputWrite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFS(t, map[string]string{
				"/work/src/a.py":   "ok",
				"/work/src/bad.py": "\x00\x01",
			})

			_, err := Run(fs, tt.opts, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			exists, statErr := afero.Exists(fs, output)
			require.NoError(t, statErr)
			assert.False(t, exists)
			dirExists, _ := afero.DirExists(fs, "/work/out")
			assert.False(t, dirExists)
		})
	}
}

func TestRunSkipsUnreadableByDefault(t *testing.T) {
	fs := newFS(t, map[string]string{
		"/work/src/a.py":   "ok",
		"/work/src/bad.py": "\x00\x01",
	})

	res, err := Run(fs, Options{InputDir: "/work/src", Output: output}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Files)
	assert.Equal(t, []string{"/work/src/bad.py"}, res.Skipped)
	assert.Equal(t, 1, readOutput(t, fs).Len())
}

func TestRunOutputWriteError(t *testing.T) {
	base := newFS(t, map[string]string{"/work/src/a.py": "ok"})
	fs := afero.NewReadOnlyFs(base)

	_, err := Run(fs, Options{InputDir: "/work/src", Output: output}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutputWrite)
	assert.Equal(t, CodeOutputWrite, Classify(err))

	exists, _ := afero.Exists(base, output)
	assert.False(t, exists)
}

func TestRunOutputParentIsFile(t *testing.T) {
	fs := newFS(t, map[string]string{
		"/work/src/a.py":        "ok",
		"/work/out/placeholder": "",
	})

	_, err := Run(fs, Options{InputDir: "/work/src", Output: "/work/out/placeholder/codebase.xml"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutputWrite)
}

func TestRunNothingCollected(t *testing.T) {
	fs := newFS(t, map[string]string{"/work/src/readme.md": "# hi"})

	res, err := Run(fs, Options{InputDir: "/work/src", Output: output}, nil)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	exists, _ := afero.Exists(fs, output)
	assert.False(t, exists)
}

func TestRunOverwritesExistingOutput(t *testing.T) {
	fs := newFS(t, map[string]string{
		"/work/src/a.py": "new",
		output:           "stale",
	})

	_, err := Run(fs, Options{InputDir: "/work/src", Output: output}, nil)
	require.NoError(t, err)

	doc := readOutput(t, fs)
	require.Equal(t, 1, doc.Len())
	assert.Equal(t, "new", doc.Records[0].Contents)

	entries, err := afero.ReadDir(fs, "/work/out")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}
