package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/sirupsen/logrus"
)

//go:embed migrations
var migrations embed.FS

// Migrate applies the embedded schema for d.Dialect.
// 各ファイルは1文で、すべて IF NOT EXISTS なので何度実行してもよい。
func Migrate(ctx context.Context, d *DB) error {
	dir := path.Join("migrations", string(d.Dialect))
	entries, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return fmt.Errorf("migrations for %s: %w", d.Dialect, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && path.Ext(e.Name()) == ".sql" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		stmt, err := migrations.ReadFile(path.Join(dir, name))
		if err != nil {
			return err
		}
		if _, err := d.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
		logrus.WithField("migration", name).Debug("applied")
	}
	return nil
}
