package typepick

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T, opts ...Option) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewDB(db, "mysql", opts...), mock
}

func TestExecute_Insert(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO users (username, email) VALUES (?, ?)").
		ExpectExec().
		WithArgs("test1", "email@test.com").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	res, err := db.In("users").
		Insert(P("username", "test1"), P("email", "email@test.com")).
		Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, KindInsert, res.Kind)
	assert.Equal(t, int64(42), res.InsertID)
	assert.Equal(t, int64(1), res.Affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_UpdateAndDelete(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("UPDATE users SET name = TO_BASE64(?) WHERE id = ?").
		ExpectExec().
		WithArgs("x", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectPrepare("DELETE FROM users WHERE age < ?").
		ExpectExec().
		WithArgs(18).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	qb := db.Builder()

	res, err := qb.In("users").
		Update(P("name", "x")).
		Where("id", "=", 7).
		Encrypt(map[string]Transform{"name": Base64(UseNone)}).
		Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Affected)

	res, err = qb.In("users").Delete().Where("age", "<", 18).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, KindDelete, res.Kind)
	assert.Equal(t, int64(3), res.Affected)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_SelectShapes(t *testing.T) {
	tests := []struct {
		name  string
		shape FetchShape
		check func(t *testing.T, row any)
	}{
		{
			name:  "assoc",
			shape: FetchAssoc,
			check: func(t *testing.T, row any) {
				assert.Equal(t, map[string]any{"id": int64(5), "name": "bob"}, row)
			},
		},
		{
			name:  "num",
			shape: FetchNum,
			check: func(t *testing.T, row any) {
				assert.Equal(t, []any{int64(5), "bob"}, row)
			},
		},
		{
			name:  "both",
			shape: FetchBoth,
			check: func(t *testing.T, row any) {
				assert.Equal(t, map[string]any{"id": int64(5), "0": int64(5), "name": "bob", "1": "bob"}, row)
			},
		},
		{
			name:  "obj",
			shape: FetchObj,
			check: func(t *testing.T, row any) {
				obj, ok := row.(*Object)
				require.True(t, ok)
				assert.Equal(t, []string{"id", "name"}, obj.Columns())
				assert.Equal(t, "bob", obj.Get("name"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)

			mock.ExpectBegin()
			mock.ExpectPrepare("SELECT id, name FROM users WHERE id = ? AND name = ?").
				ExpectQuery().
				WithArgs(5, "bob").
				WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(5), []byte("bob")))
			mock.ExpectCommit()

			res, err := db.In("users").
				Select("id", "name").
				Where("id", "=", 5).
				And("name", "=", "bob").
				Execute(context.Background(), tt.shape)

			require.NoError(t, err)
			assert.Equal(t, KindSelect, res.Kind)
			tt.check(t, res.Row)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestExecute_SelectWithoutRows(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("SELECT * FROM users WHERE id = ?").
		ExpectQuery().
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	res, err := db.In("users").Select().Where("id", "=", 1).Execute(context.Background(), FetchAssoc)

	require.NoError(t, err)
	assert.Nil(t, res.Row)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type user struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

func TestExecute_SelectManyInto(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("SELECT id, name FROM users ORDER BY id LIMIT 2").
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "ann").
			AddRow(2, "bob"))
	mock.ExpectCommit()

	var users []user
	res, err := db.In("users").
		SelectAll("id", "name").
		OrderBy(By("id")).
		Limit(2).
		Into(&users).
		Execute(context.Background(), FetchInto)

	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.Equal(t, []user{{1, "ann"}, {2, "bob"}}, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_SelectIntoDestinations(t *testing.T) {
	tests := []struct {
		name  string
		cols  []string
		dest  func() any
		check func(t *testing.T, dest any)
	}{
		{
			name: "struct",
			cols: []string{"id", "name"},
			dest: func() any { return &user{} },
			check: func(t *testing.T, dest any) {
				assert.Equal(t, &user{ID: 3, Name: "cem"}, dest)
			},
		},
		{
			name: "scalar",
			cols: []string{"id"},
			dest: func() any { return new(int64) },
			check: func(t *testing.T, dest any) {
				assert.Equal(t, int64(3), *dest.(*int64))
			},
		},
		{
			name: "bytes",
			cols: []string{"name"},
			dest: func() any { return new([]byte) },
			check: func(t *testing.T, dest any) {
				assert.Equal(t, []byte("cem"), *dest.(*[]byte))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)

			row := map[string]any{"id": int64(3), "name": "cem"}
			vals := make([]driver.Value, len(tt.cols))
			for i, c := range tt.cols {
				vals[i] = row[c]
			}

			mock.ExpectBegin()
			mock.ExpectPrepare("SELECT * FROM users WHERE id = ?").
				ExpectQuery().
				WithArgs(3).
				WillReturnRows(sqlmock.NewRows(tt.cols).AddRow(vals...))
			mock.ExpectCommit()

			dest := tt.dest()
			res, err := db.In("users").
				Select().
				Where("id", "=", 3).
				Into(dest).
				Execute(context.Background(), FetchInto)

			require.NoError(t, err)
			assert.Nil(t, res.Row)
			tt.check(t, dest)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestExecute_SelectIntoRejectsCollections(t *testing.T) {
	db, mock := newMockDB(t)

	var ids []struct{ ID int }
	_, err := db.In("users").Select("id").Into(&ids).Execute(context.Background(), FetchInto)
	assert.ErrorIs(t, err, ErrInvalidDestination)

	var byName map[string]any
	_, err = db.In("users").Select("id").Into(&byName).Execute(context.Background(), FetchInto)
	assert.ErrorIs(t, err, ErrInvalidDestination)

	// nothing reached the driver
	assert.NoError(t, mock.ExpectationsWereMet())
}

type panickingScanner struct{}

func (panickingScanner) ScanOne(Rows, FetchShape, Target) (any, error) {
	panic("scanner exploded")
}

func (panickingScanner) ScanAll(Rows, FetchShape, Target) ([]any, error) {
	panic("scanner exploded")
}

func TestExecute_PanicRollsBack(t *testing.T) {
	db, mock := newMockDB(t, WithScanner(panickingScanner{}))

	mock.ExpectBegin()
	mock.ExpectPrepare("SELECT * FROM users").
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "scanner exploded", func() {
		_, _ = db.In("users").Select().Execute(context.Background(), FetchAssoc)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_SelectManyClass(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("SELECT id, name FROM users").
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "ann").
			AddRow(2, "bob"))
	mock.ExpectCommit()

	res, err := db.In("users").
		SelectAll("id", "name").
		Into(user{}).
		Execute(context.Background(), FetchClass)

	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, &user{1, "ann"}, res.Rows[0])
	assert.Equal(t, &user{2, "bob"}, res.Rows[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_SelectBound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("SELECT id, name FROM users WHERE id = ?").
		ExpectQuery().
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "bob"))
	mock.ExpectCommit()

	var (
		id   int64
		name string
	)
	res, err := db.In("users").
		Select("id", "name").
		Where("id", "=", 2).
		BindColumns(&id, &name).
		Execute(context.Background(), FetchBound)

	require.NoError(t, err)
	assert.Nil(t, res.Row)
	assert.Equal(t, int64(2), id)
	assert.Equal(t, "bob", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_CountReturnsRowCount(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("SELECT id FROM users WHERE age > ?").
		ExpectQuery().
		WithArgs(18).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).AddRow(3))
	mock.ExpectCommit()

	res, err := db.In("users").Count("id").Where("age", ">", 18).Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, KindCount, res.Kind)
	assert.Equal(t, int64(3), res.Affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_ConfigurationErrorRunsNothing(t *testing.T) {
	db, mock := newMockDB(t)
	qb := db.Builder()

	_, err := qb.In("users").Select().Limit(-1).Condition("x").Execute(context.Background())

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, []string{MsgInvalidLimit, MsgInvalidLogical}, cfgErr.Messages)
	assert.Equal(t, "typepick: invalid builder configuration: Invalid limit; Invalid logical operator", err.Error())

	// state is reset
	assert.Empty(t, qb.Errors())
	assert.Empty(t, qb.GetTable())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_InvalidFetchShape(t *testing.T) {
	db, mock := newMockDB(t)

	_, err := db.In("users").Select().Execute(context.Background(), FetchShape("column"))
	assert.ErrorIs(t, err, ErrInvalidFetchShape)

	_, err = db.In("users").Select().Execute(context.Background(), FetchInto)
	assert.ErrorIs(t, err, ErrInvalidFetchShape)

	var u user
	_, err = db.In("users").SelectAll().Into(&u).Execute(context.Background(), FetchInto)
	assert.ErrorIs(t, err, ErrInvalidDestination)

	_, err = db.In("users").Select().Into(42).Execute(context.Background(), FetchClass)
	assert.ErrorIs(t, err, ErrInvalidDestination)

	var id int
	_, err = db.In("users").SelectAll().BindColumns(&id).Execute(context.Background(), FetchBound)
	assert.ErrorIs(t, err, ErrInvalidFetchShape)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_NoKind(t *testing.T) {
	db, mock := newMockDB(t)

	_, err := db.In("users").Where("id", "=", 1).Execute(context.Background())

	assert.ErrorIs(t, err, ErrInvalidQueryKind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_DriverErrorRollsBack(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO users (email) VALUES (?)").
		ExpectExec().
		WithArgs("dup@test.com").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	qb := db.Builder()
	_, err := qb.In("users").Insert(P("email", "dup@test.com")).Execute(context.Background())

	var drvErr *DriverError
	require.ErrorAs(t, err, &drvErr)
	assert.ErrorIs(t, err, ErrDriver)
	assert.Equal(t, "exec", drvErr.Op)
	assert.Equal(t, "1062", drvErr.Code)
	assert.Contains(t, err.Error(), "[1062]")

	var myErr *mysql.MySQLError
	assert.ErrorAs(t, err, &myErr)

	assert.Equal(t, KindNone, qb.GetAction())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_PrepareFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("DELETE FROM users").WillReturnError(errors.New("syntax"))
	mock.ExpectRollback()

	_, err := db.In("users").Delete().Execute(context.Background())

	var drvErr *DriverError
	require.ErrorAs(t, err, &drvErr)
	assert.Equal(t, "prepare", drvErr.Op)
	assert.Equal(t, "DELETE FROM users", drvErr.Query)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_CommitFailure(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("DELETE FROM users").
		ExpectExec().
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit().WillReturnError(errors.New("connection lost"))

	_, err := db.In("users").Delete().Execute(context.Background())

	var drvErr *DriverError
	require.ErrorAs(t, err, &drvErr)
	assert.Equal(t, "commit", drvErr.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_CompileErrorRollsBack(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := db.In("users").
		Select("email").
		Decrypt(map[string]Transform{"email": AES("", UseNone)}).
		Execute(context.Background())

	assert.ErrorIs(t, err, ErrMissingKey)

	var qErr *QueryError
	require.ErrorAs(t, err, &qErr)
	assert.Equal(t, "typepick: assemble select", qErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_BeginFailure(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	_, err := db.In("users").Select().Execute(context.Background())

	assert.ErrorIs(t, err, ErrDriver)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_NoConnection(t *testing.T) {
	_, err := New(nil).In("users").Select().Execute(context.Background())
	assert.ErrorIs(t, err, ErrNoConnection)
}

func TestQuery_RawStatement(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("SELECT id FROM users WHERE age > ?").
		ExpectQuery().
		WithArgs(18).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)))
	mock.ExpectCommit()

	qb := db.In("orders").Select("total")
	res, err := qb.Query(context.Background(), KindSelectMany,
		"SELECT id FROM users WHERE age > :age1",
		Bindings{":age1": Int(18)},
		FetchNum)

	require.NoError(t, err)
	assert.Equal(t, []any{[]any{int64(1)}, []any{int64(2)}}, res.Rows)

	// builder state is untouched
	assert.Equal(t, "orders", qb.GetTable())
	assert.Equal(t, KindSelect, qb.GetAction())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_RejectsNoKind(t *testing.T) {
	db, mock := newMockDB(t)

	_, err := db.Builder().Query(context.Background(), KindNone, "SELECT 1", nil, FetchNum)

	assert.ErrorIs(t, err, ErrInvalidQueryKind)
	assert.NoError(t, mock.ExpectationsWereMet())
}
