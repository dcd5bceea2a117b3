package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockBrandRepository creates a GormBrandRepository with a mocked SQL connection
func newMockBrandRepository(t *testing.T) (*GormBrandRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormBrandRepository(gormDB), mock, mockDB
}

func TestNewGormBrandRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockBrandRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormBrandRepository_FindByID(t *testing.T) {
	t.Run("finds existing brand", func(t *testing.T) {
		repo, mock, mockDB := newMockBrandRepository(t)
		defer mockDB.Close()

		brandID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "description", "logo_url", "status"}).
			AddRow(brandID, "Acme", "House brand", "https://cdn.example.com/acme.png", "active")

		mock.ExpectQuery(`SELECT \* FROM "brands" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(brandID, 1).
			WillReturnRows(rows)

		brand, err := repo.FindByID(context.Background(), brandID)

		assert.NoError(t, err)
		assert.NotNil(t, brand)
		assert.Equal(t, brandID, brand.ID)
		assert.Equal(t, "Acme", brand.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent brand", func(t *testing.T) {
		repo, mock, mockDB := newMockBrandRepository(t)
		defer mockDB.Close()

		brandID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "brands" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(brandID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		brand, err := repo.FindByID(context.Background(), brandID)

		assert.Error(t, err)
		assert.Nil(t, brand)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBrandRepository_FindByName(t *testing.T) {
	t.Run("finds brand by exact name", func(t *testing.T) {
		repo, mock, mockDB := newMockBrandRepository(t)
		defer mockDB.Close()

		brandID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "status"}).
			AddRow(brandID, "Acme", "active")

		mock.ExpectQuery(`SELECT \* FROM "brands" WHERE name = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("Acme", 1).
			WillReturnRows(rows)

		brand, err := repo.FindByName(context.Background(), "  Acme  ") // padded to test trimming

		assert.NoError(t, err)
		assert.NotNil(t, brand)
		assert.Equal(t, "Acme", brand.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error when name is unknown", func(t *testing.T) {
		repo, mock, mockDB := newMockBrandRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "brands" WHERE name = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("Ghost", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		brand, err := repo.FindByName(context.Background(), "Ghost")

		assert.Error(t, err)
		assert.Nil(t, brand)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBrandRepository_FindAll(t *testing.T) {
	t.Run("applies status filter and pagination", func(t *testing.T) {
		repo, mock, mockDB := newMockBrandRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "name", "status"}).
			AddRow(uuid.New(), "Acme", "active").
			AddRow(uuid.New(), "Umbra", "active")

		mock.ExpectQuery(`SELECT \* FROM "brands" WHERE status = \$1 ORDER BY name ASC LIMIT .*`).
			WithArgs("active", 20).
			WillReturnRows(rows)

		brands, err := repo.FindAll(context.Background(), shared.Filter{
			Page:     1,
			PageSize: 20,
			OrderBy:  "name",
			OrderDir: "asc",
			Filters:  map[string]interface{}{"status": "active"},
		})

		assert.NoError(t, err)
		assert.Len(t, brands, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies name search", func(t *testing.T) {
		repo, mock, mockDB := newMockBrandRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "name", "status"}).
			AddRow(uuid.New(), "Acme", "active")

		mock.ExpectQuery(`SELECT \* FROM "brands" WHERE name ILIKE \$1`).
			WithArgs("%Acm%").
			WillReturnRows(rows)

		brands, err := repo.FindAll(context.Background(), shared.Filter{Search: "Acm"})

		assert.NoError(t, err)
		assert.Len(t, brands, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBrandRepository_Save(t *testing.T) {
	t.Run("saves brand", func(t *testing.T) {
		repo, mock, mockDB := newMockBrandRepository(t)
		defer mockDB.Close()

		brand, err := catalog.NewBrand("Acme", "House brand", "")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "brands" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), brand)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBrandRepository_Delete(t *testing.T) {
	t.Run("deletes existing brand", func(t *testing.T) {
		repo, mock, mockDB := newMockBrandRepository(t)
		defer mockDB.Close()

		brandID := uuid.New()

		mock.ExpectExec(`DELETE FROM "brands" WHERE id = \$1`).
			WithArgs(brandID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), brandID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent brand", func(t *testing.T) {
		repo, mock, mockDB := newMockBrandRepository(t)
		defer mockDB.Close()

		brandID := uuid.New()

		mock.ExpectExec(`DELETE FROM "brands" WHERE id = \$1`).
			WithArgs(brandID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), brandID)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBrandRepository_Count(t *testing.T) {
	t.Run("counts brands", func(t *testing.T) {
		repo, mock, mockDB := newMockBrandRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "brands"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.Count(context.Background(), shared.Filter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBrandRepository_ExistsByName(t *testing.T) {
	t.Run("returns true when brand exists", func(t *testing.T) {
		repo, mock, mockDB := newMockBrandRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "brands" WHERE name = \$1`).
			WithArgs("Acme").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByName(context.Background(), "Acme")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when brand does not exist", func(t *testing.T) {
		repo, mock, mockDB := newMockBrandRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "brands" WHERE name = \$1`).
			WithArgs("Ghost").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByName(context.Background(), "Ghost")

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
