package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/zhouyitao000/productideaauto/internal/config"
	"github.com/zhouyitao000/productideaauto/internal/model"
)

// Archive 可选的 Postgres 批次归档；JSON 历史文件之外的长期留存
type Archive struct {
	db *sql.DB
}

// NewArchive 连接数据库并初始化表结构
func NewArchive(cfg config.DBConfig) (*Archive, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	a := &Archive{db: db}
	if err := a.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return a, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS batches (
			id SERIAL PRIMARY KEY,
			platform TEXT NOT NULL,
			batch_ts TEXT NOT NULL,
			batch_hour TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS topic_results (
			id SERIAL PRIMARY KEY,
			batch_id INTEGER REFERENCES batches(id),
			rank INTEGER,
			title TEXT,
			hot_value TEXT,
			label TEXT,
			summary TEXT,
			analysis_failed BOOLEAN DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS ideas (
			id SERIAL PRIMARY KEY,
			topic_result_id INTEGER REFERENCES topic_results(id),
			idea_id TEXT,
			name TEXT,
			target_users TEXT,
			interest INTEGER,
			usefulness INTEGER,
			total REAL,
			quality TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS competitors (
			id SERIAL PRIMARY KEY,
			idea_id INTEGER REFERENCES ideas(id),
			name TEXT,
			url TEXT
		)`,
	}

	for _, query := range queries {
		if _, err := a.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}

	return nil
}

// SaveBatch 归档一个批次：批次、话题结果、创意、竞品逐层写入同一事务
func (a *Archive) SaveBatch(platform model.Platform, batch model.Batch) error {
	tx, err := a.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var batchID int
	err = tx.QueryRow(`
		INSERT INTO batches (platform, batch_ts, batch_hour)
		VALUES ($1, $2, $3)
		RETURNING id`,
		platform, batch.Timestamp, batch.TimestampHour).Scan(&batchID)
	if err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}

	for _, result := range batch.Results {
		var resultID int
		err = tx.QueryRow(`
			INSERT INTO topic_results (batch_id, rank, title, hot_value, label, summary, analysis_failed)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			batchID, result.Topic.Rank, result.Topic.Title, result.Topic.HotValue,
			result.Topic.Label, result.Research.Summary, result.Failed).Scan(&resultID)
		if err != nil {
			return fmt.Errorf("failed to insert topic result: %w", err)
		}

		for _, idea := range result.Ideas {
			var ideaID int
			err = tx.QueryRow(`
				INSERT INTO ideas (topic_result_id, idea_id, name, target_users, interest, usefulness, total, quality)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				RETURNING id`,
				resultID, idea.ID, idea.Name, idea.TargetUsers,
				idea.Scores.Interest, idea.Scores.Usefulness, idea.Scores.Total, idea.QualityClass).Scan(&ideaID)
			if err != nil {
				return fmt.Errorf("failed to insert idea: %w", err)
			}

			for _, comp := range idea.Competitors {
				_, err = tx.Exec(`
					INSERT INTO competitors (idea_id, name, url)
					VALUES ($1, $2, $3)`,
					ideaID, comp.Name, comp.URL)
				if err != nil {
					return fmt.Errorf("failed to insert competitor: %w", err)
				}
			}
		}
	}

	return tx.Commit()
}
