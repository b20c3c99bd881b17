package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestMapError(t *testing.T) {
	busy := sqlite3.Error{Code: sqlite3.ErrBusy}
	assert.True(t, errors.Is(mapError(busy), domain.ErrConcurrencyConflict))

	locked := sqlite3.Error{Code: sqlite3.ErrLocked}
	assert.True(t, errors.Is(mapError(locked), domain.ErrConcurrencyConflict))

	unique := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}
	assert.True(t, errors.Is(mapError(unique), domain.ErrDuplicate))

	fk := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}
	assert.False(t, errors.Is(mapError(fk), domain.ErrDuplicate))

	other := errors.New("disk I/O error")
	assert.Equal(t, other, mapError(other))
	assert.NoError(t, mapError(nil))
}

func TestTxRunner_BeginOcupadoEsConflicto(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectBegin().WillReturnError(sqlite3.Error{Code: sqlite3.ErrBusy})

	called := false
	err := NewTxRunner(s).Run(context.Background(), func(repository.DocumentRepository, repository.StockRepository, repository.StockMovementRepository) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConcurrencyConflict))
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_ErrorHaceRollback(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := NewTxRunner(s).Run(context.Background(), func(repository.DocumentRepository, repository.StockRepository, repository.StockMovementRepository) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_CommitOcupadoEsConflicto(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(sqlite3.Error{Code: sqlite3.ErrBusy})

	err := NewTxRunner(s).Run(context.Background(), func(repository.DocumentRepository, repository.StockRepository, repository.StockMovementRepository) error {
		return nil
	})
	assert.True(t, errors.Is(err, domain.ErrConcurrencyConflict))
}

func TestStockRepo_GetSinFila(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("SELECT (.+) FROM stock_entries WHERE warehouse_id = \\? AND product_id = \\?").
		WithArgs("W1", "P1").
		WillReturnRows(sqlmock.NewRows([]string{"warehouse_id", "product_id", "unit_measure", "quantity", "updated_at"}))

	e, err := s.Stock().Get(context.Background(), "W1", "P1")
	require.NoError(t, err)
	assert.Nil(t, e)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockRepo_GetForUpdateCreaEnCero(t *testing.T) {
	s, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO stock_entries (.+) ON CONFLICT \\(warehouse_id, product_id\\) DO NOTHING").
		WithArgs("W1", "P1", "kg", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT (.+) FROM stock_entries").
		WithArgs("W1", "P1").
		WillReturnRows(sqlmock.NewRows([]string{"warehouse_id", "product_id", "unit_measure", "quantity", "updated_at"}).
			AddRow("W1", "P1", "kg", "0", now))

	e, err := s.Stock().GetForUpdate(context.Background(), "W1", "P1", "kg")
	require.NoError(t, err)
	assert.True(t, e.Quantity.IsZero())
	assert.Equal(t, "kg", e.UnitMeasure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepo_MarkConfirmedYaConfirmado(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("UPDATE movement_documents SET confirmed = 1").
		WithArgs(sqlmock.AnyArg(), "u1", "D1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT confirmed FROM movement_documents").
		WithArgs("D1").
		WillReturnRows(sqlmock.NewRows([]string{"confirmed"}).AddRow(true))

	err := s.Documents().MarkConfirmed(context.Background(), "D1", time.Now(), "u1")
	assert.True(t, errors.Is(err, domain.ErrAlreadyConfirmed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepo_DeleteDraftInexistente(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("DELETE FROM movement_documents").
		WithArgs("D404").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT confirmed FROM movement_documents").
		WithArgs("D404").
		WillReturnRows(sqlmock.NewRows([]string{"confirmed"}))

	err := s.Documents().DeleteDraft(context.Background(), "D404")
	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "D404", nf.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_CodigoDuplicado(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("INSERT INTO products").
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique})

	err := s.Products().Create(context.Background(), newProduct("P1", "CHAT-01", "kg"))
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}
