package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/filmorate/backend/internal/db"
	"github.com/filmorate/backend/internal/logging"
	"github.com/filmorate/backend/internal/models"
)

const userSelect = `
        SELECT u.id, u.email, u.login, u.name, u.birthday, fu.id
        FROM users u
        LEFT JOIN friendship_status fs ON fs.user_id = u.id
        LEFT JOIN users fu ON fu.id = fs.friend_id
`

// PostgresUserRepository provides PostgreSQL-backed persistence for users and
// their directed friend edges.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Save inserts the user and its outgoing friend edges in one transaction.
func (r *PostgresUserRepository) Save(ctx context.Context, user models.User) (models.User, error) {
	ctx, span := logging.StartSpan(ctx, "users.save")
	defer span.End()

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var saved models.User
	err = pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		if user.ID != 0 {
			ok, err := rowExists(ctx, tx, "users", user.ID)
			if err != nil {
				return err
			}
			if ok {
				return fmt.Errorf("user %d: %w", user.ID, ErrAlreadyExists)
			}
		}
		if err := requireRows(ctx, tx, "users", "user", user.Friends.Sorted()); err != nil {
			return err
		}

		var id int64
		err := tx.QueryRow(ctx, `
            INSERT INTO users (email, login, name, birthday)
            VALUES ($1, $2, $3, $4)
            RETURNING id
        `, user.Email, user.Login, user.Name, user.Birthday).Scan(&id)
		if err != nil {
			return translatePgError(err, "insert user")
		}

		if err := insertFriendEdges(ctx, tx, id, user.Friends); err != nil {
			return err
		}

		saved, err = findUser(ctx, tx, id)
		return err
	})
	if err != nil {
		return models.User{}, span.Fail(err)
	}
	return saved, nil
}

// Update rewrites the user row and replaces its friend edges wholesale.
func (r *PostgresUserRepository) Update(ctx context.Context, user models.User) (models.User, error) {
	ctx, span := logging.StartSpan(ctx, "users.update", slog.Int64("user_id", user.ID))
	defer span.End()

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var updated models.User
	err = pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		if err := requireRow(ctx, tx, "users", "user", user.ID); err != nil {
			return err
		}
		if err := requireRows(ctx, tx, "users", "user", user.Friends.Sorted()); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM friendship_status WHERE user_id = $1`, user.ID); err != nil {
			return fmt.Errorf("clear friend edges: %w", err)
		}

		_, err := tx.Exec(ctx, `
            UPDATE users
            SET email = $2, login = $3, name = $4, birthday = $5
            WHERE id = $1
        `, user.ID, user.Email, user.Login, user.Name, user.Birthday)
		if err != nil {
			return translatePgError(err, "update user")
		}

		if err := insertFriendEdges(ctx, tx, user.ID, user.Friends); err != nil {
			return err
		}

		updated, err = findUser(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		return models.User{}, span.Fail(err)
	}
	return updated, nil
}

// FindAll returns every user ordered by id.
func (r *PostgresUserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, userSelect+` ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	return foldUsers(rows)
}

// FindByID fetches a single user with its friend ids.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id int64) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return findUser(ctx, conn, id)
}

// Exists reports whether a user row with the id is present.
func (r *PostgresUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return rowExists(ctx, conn, "users", id)
}

// AddFriend records the edge userID -> friendID. The reverse edge is untouched.
func (r *PostgresUserRepository) AddFriend(ctx context.Context, userID, friendID int64) error {
	return r.mutateEdge(ctx, userID, friendID, `
        INSERT INTO friendship_status (user_id, friend_id)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING
    `)
}

// RemoveFriend deletes the edge userID -> friendID if it exists.
func (r *PostgresUserRepository) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	return r.mutateEdge(ctx, userID, friendID, `
        DELETE FROM friendship_status
        WHERE user_id = $1 AND friend_id = $2
    `)
}

// Friends lists the users the given user has befriended, ordered by id.
func (r *PostgresUserRepository) Friends(ctx context.Context, userID int64) ([]models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if err := requireRow(ctx, conn, "users", "user", userID); err != nil {
		return nil, err
	}

	rows, err := conn.Query(ctx, userSelect+`
        WHERE u.id IN (SELECT friend_id FROM friendship_status WHERE user_id = $1)
        ORDER BY u.id
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query friends: %w", err)
	}
	return foldUsers(rows)
}

// CommonFriends lists users present in both friend sets, ordered by id.
func (r *PostgresUserRepository) CommonFriends(ctx context.Context, userID, otherID int64) ([]models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if err := requireRow(ctx, conn, "users", "user", userID); err != nil {
		return nil, err
	}
	if err := requireRow(ctx, conn, "users", "user", otherID); err != nil {
		return nil, err
	}

	rows, err := conn.Query(ctx, `
        WITH common AS (
            SELECT friend_id FROM friendship_status WHERE user_id = $1
            INTERSECT
            SELECT friend_id FROM friendship_status WHERE user_id = $2
        )
    `+userSelect+`
        WHERE u.id IN (SELECT friend_id FROM common)
        ORDER BY u.id
    `, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("query common friends: %w", err)
	}
	return foldUsers(rows)
}

func (r *PostgresUserRepository) mutateEdge(ctx context.Context, userID, friendID int64, stmt string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if err := requireRow(ctx, conn, "users", "user", userID); err != nil {
		return err
	}
	if err := requireRow(ctx, conn, "users", "user", friendID); err != nil {
		return err
	}

	if _, err := conn.Exec(ctx, stmt, userID, friendID); err != nil {
		return translatePgError(err, "write friend edge")
	}
	return nil
}

func findUser(ctx context.Context, q db.Querier, id int64) (models.User, error) {
	rows, err := q.Query(ctx, userSelect+` WHERE u.id = $1`, id)
	if err != nil {
		return models.User{}, fmt.Errorf("query user: %w", err)
	}
	users, err := foldUsers(rows)
	if err != nil {
		return models.User{}, err
	}
	if len(users) == 0 {
		return models.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return users[0], nil
}

// foldUsers collapses one row per (user, friend) into one user per id.
func foldUsers(rows pgx.Rows) ([]models.User, error) {
	defer rows.Close()

	var order []int64
	byID := make(map[int64]*models.User)

	for rows.Next() {
		var (
			user     models.User
			birthday time.Time
			friendID *int64
		)
		if err := rows.Scan(&user.ID, &user.Email, &user.Login, &user.Name, &birthday, &friendID); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}

		agg, seen := byID[user.ID]
		if !seen {
			user.Birthday = birthday.UTC()
			user.Friends = models.NewIDSet()
			agg = &user
			byID[user.ID] = agg
			order = append(order, user.ID)
		}
		if friendID != nil {
			agg.AddFriend(*friendID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	users := make([]models.User, 0, len(order))
	for _, id := range order {
		users = append(users, *byID[id])
	}
	return users, nil
}

func insertFriendEdges(ctx context.Context, tx pgx.Tx, userID int64, friends models.IDSet) error {
	if friends.Len() == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, friendID := range friends.Sorted() {
		batch.Queue(`INSERT INTO friendship_status (user_id, friend_id) VALUES ($1, $2)`, userID, friendID)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return translatePgError(err, "insert friend edges")
	}
	return nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
