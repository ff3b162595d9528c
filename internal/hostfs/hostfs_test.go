package hostfs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestPflagsToUnixTranslation(t *testing.T) {
	require.Equal(t, unix.O_RDWR, PflagsToUnix(FlagRead|FlagWrite))
	require.Equal(t, unix.O_RDONLY, PflagsToUnix(FlagRead))
	require.Equal(t, unix.O_WRONLY, PflagsToUnix(FlagWrite))
	require.Equal(t, unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC, PflagsToUnix(FlagWrite|FlagCreat|FlagTrunc))
	require.Equal(t, 0, PflagsToUnix(FlagAppend), "APPEND alone folds into no host flags")
}

func TestOpenWriteReadCloseRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x")

	fd, err := Open(path, PflagsToUnix(FlagRead|FlagWrite|FlagCreat|FlagTrunc), 0o644)
	require.NoError(t, err)

	n, err := Write(fd, 0, []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)

	buf := make([]byte, 16)
	n, err = Read(fd, 0, buf)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf[:n]))

	require.NoError(t, Close(fd))

	st, err := Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(5), int64(st.Size))
}

func TestOpenNonexistentReturnsENOENT(t *testing.T) {
	_, err := Open("/does/not/exist", PflagsToUnix(FlagRead), 0)
	require.ErrorIs(t, err, unix.ENOENT)
}

func TestMkdirRmdirRemove(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "d")
	require.NoError(t, Mkdir(sub, 0o777))

	st, err := Stat(sub)
	require.NoError(t, err)
	require.True(t, st.Mode&unix.S_IFDIR != 0)

	require.NoError(t, Rmdir(sub))

	file := filepath.Join(dir, "f")
	fd, err := Open(file, PflagsToUnix(FlagWrite|FlagCreat), 0o644)
	require.NoError(t, err)
	require.NoError(t, Close(fd))
	require.NoError(t, Remove(file))
}

func TestSymlinkArgumentOrderAndReadlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	link := filepath.Join(dir, "link")

	fd, err := Open(target, PflagsToUnix(FlagWrite|FlagCreat), 0o644)
	require.NoError(t, err)
	require.NoError(t, Close(fd))

	// Symlink(target, linkpath) matches symlink(2)'s own order.
	require.NoError(t, Symlink(target, link))

	buf := make([]byte, 4096)
	n, err := Readlink(link, buf)
	require.NoError(t, err)
	require.Equal(t, target, string(buf[:n]))
}

func TestRealPathResolvesDot(t *testing.T) {
	resolved, err := RealPath(".")
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(resolved))
}

func TestOpenDirAndStatRelative(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFile(filepath.Join(dir, "a"), "A"))
	require.NoError(t, writeFile(filepath.Join(dir, "b"), "BB"))

	d, err := OpenDir(dir)
	require.NoError(t, err)
	defer d.Close()

	seen := map[string]int64{}
	for {
		name, ok := d.Next()
		if !ok {
			break
		}
		st, err := StatRelative(d.Fd(), name)
		require.NoError(t, err)
		seen[name] = int64(st.Size)
	}
	require.Equal(t, int64(1), seen["a"])
	require.Equal(t, int64(2), seen["b"])
	require.Contains(t, seen, ".", "listings should include the directory itself")
	require.Contains(t, seen, "..", "listings should include the parent")
}

func writeFile(path, content string) error {
	fd, err := Open(path, PflagsToUnix(FlagWrite|FlagCreat|FlagTrunc), 0o644)
	if err != nil {
		return err
	}
	if _, err := Write(fd, 0, []byte(content)); err != nil {
		return err
	}
	return Close(fd)
}
