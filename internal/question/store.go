package question

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrQuestionNotFound = errors.New("question not found")
)

// Store is the question bank the codec reads from and imports into.
type Store interface {
	SaveAll(ctx context.Context, items []Question) error
	List(ctx context.Context, f Filter) ([]Question, error)
	Get(ctx context.Context, id string) (*Question, error)
}

type Filter struct {
	Subject string
	Token   string
	Limit   int
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

const selectQuestionColumns = `
	SELECT id, ord, question_type, level, material, subject, text, image,
		options_json, option_images_json, answer_key_json, explanation,
		quiz_token, phase, is_deleted, created_at
	FROM bank_questions
`

// SaveAll upserts items in one transaction; either every question is stored
// or none is.
func (s *SQLStore) SaveAll(ctx context.Context, items []Question) error {
	for _, q := range items {
		if strings.TrimSpace(q.ID) == "" || strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: question id and text are required", ErrInvalidInput)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range items {
		options, err := json.Marshal(nonNil(q.Options))
		if err != nil {
			return fmt.Errorf("marshal options: %w", err)
		}
		var optionImages any
		if q.OptionImages != nil {
			b, err := json.Marshal(q.OptionImages)
			if err != nil {
				return fmt.Errorf("marshal option images: %w", err)
			}
			optionImages = string(b)
		}
		key, err := MarshalAnswerKey(q.Type, q.CorrectAnswer)
		if err != nil {
			return fmt.Errorf("marshal answer key: %w", err)
		}
		createdAt := q.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO bank_questions (
				id, ord, question_type, level, material, subject, text, image,
				options_json, option_images_json, answer_key_json, explanation,
				quiz_token, phase, is_deleted, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			ON CONFLICT (id) DO UPDATE SET
				ord = EXCLUDED.ord,
				question_type = EXCLUDED.question_type,
				level = EXCLUDED.level,
				material = EXCLUDED.material,
				subject = EXCLUDED.subject,
				text = EXCLUDED.text,
				image = EXCLUDED.image,
				options_json = EXCLUDED.options_json,
				option_images_json = EXCLUDED.option_images_json,
				answer_key_json = EXCLUDED.answer_key_json,
				explanation = EXCLUDED.explanation,
				quiz_token = EXCLUDED.quiz_token,
				phase = EXCLUDED.phase,
				is_deleted = EXCLUDED.is_deleted
		`,
			q.ID, q.Order, string(q.Type), q.Level, q.Material, q.Subject, q.Text, q.Image,
			string(options), optionImages, string(key), q.Explanation,
			q.QuizToken, q.Phase, q.IsDeleted, createdAt.UnixMilli(),
		); err != nil {
			return fmt.Errorf("upsert question %s: %w", q.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context, f Filter) ([]Question, error) {
	query := selectQuestionColumns + ` WHERE is_deleted = FALSE`
	args := make([]any, 0, 3)
	if v := strings.TrimSpace(f.Subject); v != "" {
		args = append(args, v)
		query += ` AND subject = $` + strconv.Itoa(len(args))
	}
	if v := strings.ToUpper(strings.TrimSpace(f.Token)); v != "" {
		args = append(args, v)
		query += ` AND quiz_token = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY ord ASC, created_at ASC, id ASC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	items := make([]Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return items, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (*Question, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidInput
	}
	row := s.db.QueryRowContext(ctx, selectQuestionColumns+` WHERE id = $1 AND is_deleted = FALSE`, id)
	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

func scanQuestion(scanner interface{ Scan(dest ...any) error }) (*Question, error) {
	var (
		q            Question
		qType        string
		options      string
		optionImages sql.NullString
		key          string
		createdAt    int64
	)
	if err := scanner.Scan(
		&q.ID,
		&q.Order,
		&qType,
		&q.Level,
		&q.Material,
		&q.Subject,
		&q.Text,
		&q.Image,
		&options,
		&optionImages,
		&key,
		&q.Explanation,
		&q.QuizToken,
		&q.Phase,
		&q.IsDeleted,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan question: %w", err)
	}

	q.Type = Type(qType)
	if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
		return nil, fmt.Errorf("decode options of %s: %w", q.ID, err)
	}
	if optionImages.Valid {
		if err := json.Unmarshal([]byte(optionImages.String), &q.OptionImages); err != nil {
			return nil, fmt.Errorf("decode option images of %s: %w", q.ID, err)
		}
	}
	q.CorrectAnswer = UnmarshalAnswerKey(q.Type, []byte(key))
	q.CreatedAt = time.UnixMilli(createdAt)
	return &q, nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
