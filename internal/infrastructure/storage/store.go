// Package storage 以 SQLite 保存匯入的食譜
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"recipe-importer/internal/core/recipe"
	"recipe-importer/internal/pkg/common"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// ErrNotFound 找不到食譜
var ErrNotFound = errors.New("recipe not found")

// RecipeStore 食譜庫；整筆紀錄以 JSON 保存，常用欄位另存以便查詢
type RecipeStore struct {
	db *sql.DB
}

// Open 開啟（必要時建立）資料庫並執行遷移；path 為 ":memory:" 時使用記憶體資料庫
func Open(path string) (*RecipeStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite 只允許單一寫入者；記憶體資料庫每條連線各自獨立
	db.SetMaxOpenConns(1)

	if err := initDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	common.LogInfo("食譜庫已開啟", zap.String("path", path))
	return &RecipeStore{db: db}, nil
}

// initDB 執行遷移
func initDB(db *sql.DB) error {
	for _, s := range strings.Split(migrationsSQL, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Ping 檢查連線
func (s *RecipeStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close 關閉資料庫
func (s *RecipeStore) Close() error {
	return s.db.Close()
}

// Save 新增或覆寫同 ID 的食譜
func (s *RecipeStore) Save(ctx context.Context, r *recipe.Recipe) error {
	if r == nil || r.ID == "" {
		return fmt.Errorf("recipe id must be non-empty")
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal recipe: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO recipes (id, title, source_url, source_name, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   source_url = excluded.source_url,
		   source_name = excluded.source_name,
		   data = excluded.data,
		   updated_at = excluded.updated_at`,
		r.ID, r.Title, r.SourceURL, r.SourceName, string(data), r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save recipe: %w", err)
	}
	return nil
}

// Get 依 ID 取得食譜
func (s *RecipeStore) Get(ctx context.Context, id string) (*recipe.Recipe, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM recipes WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return decode(data)
}

// FindBySourceURL 取得同一網址最近匯入的食譜
func (s *RecipeStore) FindBySourceURL(ctx context.Context, sourceURL string) (*recipe.Recipe, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM recipes WHERE source_url = ? ORDER BY updated_at DESC LIMIT 1`,
		sourceURL,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find recipe: %w", err)
	}
	return decode(data)
}

// List 依更新時間由新到舊分頁列出，並回傳總筆數
func (s *RecipeStore) List(ctx context.Context, limit, offset int) ([]*recipe.Recipe, int, error) {
	return s.query(ctx, "", limit, offset)
}

// Search 以標題或來源名稱做不分大小寫的部分比對
func (s *RecipeStore) Search(ctx context.Context, q string, limit, offset int) ([]*recipe.Recipe, int, error) {
	return s.query(ctx, strings.TrimSpace(q), limit, offset)
}

func (s *RecipeStore) query(ctx context.Context, q string, limit, offset int) ([]*recipe.Recipe, int, error) {
	where := ""
	var args []interface{}
	if q != "" {
		where = ` WHERE title LIKE ? ESCAPE '\' OR source_name LIKE ? ESCAPE '\'`
		pattern := "%" + escapeLike(q) + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM recipes`+where+` ORDER BY updated_at DESC, id LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	items := make([]*recipe.Recipe, 0, limit)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, 0, fmt.Errorf("scan recipe: %w", err)
		}
		r, err := decode(data)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	return items, total, nil
}

// Delete 刪除食譜
func (s *RecipeStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func decode(data string) (*recipe.Recipe, error) {
	var r recipe.Recipe
	if err := common.ParseJSON(data, &r); err != nil {
		return nil, fmt.Errorf("decode recipe: %w", err)
	}
	return &r, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
