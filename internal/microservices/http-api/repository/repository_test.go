package repository

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"eshelf/internal/microservices/http-api/models"
)

type RepositorySuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	db   *gorm.DB
	ctx  context.Context
}

func (s *RepositorySuite) SetupTest() {
	sqlDB, mock, err := sqlmock.New()
	s.Require().NoError(err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)

	s.mock = mock
	s.db = db
	s.ctx = context.Background()
}

func (s *RepositorySuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func q(sql string) string { return regexp.QuoteMeta(sql) }

func (s *RepositorySuite) TestAddToSetChanged() {
	s.mock.ExpectExec(q(`UPDATE "users" SET "favorites"=array_append(favorites, $1)`)).
		WithArgs("978", "u1", "978").
		WillReturnResult(sqlmock.NewResult(0, 1))

	changed, err := NewUserRepository(s.db).AddToSet(s.ctx, "u1", FavoritesSet, "978")
	s.NoError(err)
	s.True(changed)
}

func (s *RepositorySuite) TestAddToSetAlreadyMember() {
	s.mock.ExpectExec(q(`UPDATE "users" SET "bookmarks"=array_append(bookmarks, $1)`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := NewUserRepository(s.db).AddToSet(s.ctx, "u1", BookmarksSet, "978")
	s.NoError(err)
	s.False(changed)
}

func (s *RepositorySuite) TestRemoveFromSet() {
	s.mock.ExpectExec(q(`UPDATE "users" SET "favorites"=array_remove(favorites, $1)`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	changed, err := NewUserRepository(s.db).RemoveFromSet(s.ctx, "u1", FavoritesSet, "978")
	s.NoError(err)
	s.True(changed)
}

func (s *RepositorySuite) TestAdjustBookCountsSkipsEmpty() {
	s.NoError(NewGenreRepository(s.db).AdjustBookCounts(s.ctx, nil, 1))
	s.NoError(NewGenreRepository(s.db).AdjustBookCounts(s.ctx, []string{"A"}, 0))
}

func (s *RepositorySuite) TestAdjustBookCountsFloorsAtZero() {
	s.mock.ExpectExec(q(`UPDATE "genres" SET "book_count"=GREATEST(book_count + $1, 0) WHERE name IN ($2,$3)`)).
		WithArgs(-1, "A", "B").
		WillReturnResult(sqlmock.NewResult(0, 2))

	s.NoError(NewGenreRepository(s.db).AdjustBookCounts(s.ctx, []string{"A", "B"}, -1))
}

func (s *RepositorySuite) TestDeactivateMissingBook() {
	s.mock.ExpectExec(q(`UPDATE "books" SET "is_active"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewBookRepository(s.db).Deactivate(s.ctx, "missing")
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *RepositorySuite) TestFeedbackStatusCounts() {
	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("pending", 3).
		AddRow("resolved", 1)
	s.mock.ExpectQuery(q(`SELECT status, COUNT(*) AS count FROM "feedback"`)).
		WillReturnRows(rows)

	counts, err := NewFeedbackRepository(s.db).StatusCounts(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[string]int64{"pending": 3, "resolved": 1}, counts)
}

func (s *RepositorySuite) TestFeedbackDeleteMissing() {
	s.mock.ExpectExec(q(`DELETE FROM "feedback" WHERE id = $1`)).
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewFeedbackRepository(s.db).Delete(s.ctx, "nope")
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *RepositorySuite) TestBookListAppliesEveryFilter() {
	from, to := 2000, 2020
	f := BookFilter{
		Keyword:  "50%_off",
		Compact:  "viet",
		Genres:   []string{"Lịch sử"},
		YearFrom: &from,
		YearTo:   &to,
		Language: "Tiếng Việt",
		Sort:     SortSearch,
	}
	where := `WHERE is_active = $1 AND search_text LIKE $2 AND search_compact LIKE $3 AND $4 = ANY(genres) ` +
		`AND year >= $5 AND year <= $6 AND language = $7`
	args := []any{true, `%50\%\_off%`, "%viet%", "Lịch sử", from, to, "Tiếng Việt"}

	s.mock.ExpectQuery(q(`SELECT count(*) FROM "books" ` + where)).
		WithArgs(toDriverArgs(args)...).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))
	s.mock.ExpectQuery(q(`SELECT * FROM "books" ` + where + ` ORDER BY view_count DESC, created_at DESC, isbn ASC LIMIT $8 OFFSET $9`)).
		WithArgs(toDriverArgs(append(args, 20, 40))...).
		WillReturnRows(sqlmock.NewRows([]string{"isbn", "title"}).
			AddRow("1", "A").AddRow("2", "B").AddRow("3", "C").AddRow("4", "D").AddRow("5", "E"))

	list, total, err := NewBookRepository(s.db).List(s.ctx, f, 3, 20)
	s.Require().NoError(err)
	s.Equal(int64(45), total)
	s.Len(list, 5)
}

func (s *RepositorySuite) TestBookListManyGenresUsesOverlap() {
	genres := []string{"Fiction", "History"}
	s.mock.ExpectQuery(q(`SELECT count(*) FROM "books" WHERE is_active = $1 AND genres && $2`)).
		WithArgs(true, pq.Array(genres)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	s.mock.ExpectQuery(q(`SELECT * FROM "books" WHERE is_active = $1 AND genres && $2 ORDER BY created_at DESC, isbn ASC LIMIT $3`)).
		WithArgs(true, pq.Array(genres), 20).
		WillReturnRows(sqlmock.NewRows([]string{"isbn"}))

	list, total, err := NewBookRepository(s.db).List(s.ctx, BookFilter{Genres: genres, Sort: "bogus"}, 1, 20)
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(list)
}

func (s *RepositorySuite) TestIncrementViewReturnsUpdatedRow() {
	s.mock.ExpectQuery(q(`UPDATE "books" SET "view_count"=view_count + 1 WHERE isbn = $1 AND is_active = $2 RETURNING *`)).
		WithArgs("978", true).
		WillReturnRows(sqlmock.NewRows([]string{"isbn", "title", "view_count"}).AddRow("978", "Sapiens", 8))

	book, err := NewBookRepository(s.db).IncrementView(s.ctx, "978")
	s.Require().NoError(err)
	s.Equal("978", book.ISBN)
	s.Equal(int64(8), book.ViewCount)
}

func (s *RepositorySuite) TestIncrementViewMissingBook() {
	s.mock.ExpectQuery(q(`UPDATE "books" SET "view_count"=view_count + 1`)).
		WillReturnRows(sqlmock.NewRows([]string{"isbn", "view_count"}))

	_, err := NewBookRepository(s.db).IncrementView(s.ctx, "missing")
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *RepositorySuite) TestRelatedSharesGenreExcludingSelf() {
	book := &models.Book{ISBN: "978", Genres: pq.StringArray{"Fiction"}}
	s.mock.ExpectQuery(`SELECT .+ FROM "books" WHERE is_active = \$1 AND isbn <> \$2 AND genres && \$3 ORDER BY view_count DESC, isbn ASC LIMIT \$4`).
		WithArgs(true, "978", pq.Array([]string{"Fiction"}), 12).
		WillReturnRows(sqlmock.NewRows([]string{"isbn", "title"}).AddRow("979", "Other"))

	related, err := NewBookRepository(s.db).Related(s.ctx, book, 12)
	s.Require().NoError(err)
	s.Require().Len(related, 1)
	s.Equal("979", related[0].ISBN)
}

func (s *RepositorySuite) TestRelatedWithoutGenres() {
	related, err := NewBookRepository(s.db).Related(s.ctx, &models.Book{ISBN: "978"}, 12)
	s.NoError(err)
	s.Empty(related)
}

func (s *RepositorySuite) TestReviewAverageByBook() {
	s.mock.ExpectQuery(q(`SELECT COALESCE(AVG(rating), 0) as average FROM "reviews" WHERE book_isbn = $1 AND is_active = $2`)).
		WithArgs("978", true).
		WillReturnRows(sqlmock.NewRows([]string{"average"}).AddRow(4.5))

	avg, err := NewReviewRepository(s.db).AverageByBook(s.ctx, "978")
	s.Require().NoError(err)
	s.InDelta(4.5, avg, 1e-9)
}

func (s *RepositorySuite) TestDonationCompletedTotalByUser() {
	s.mock.ExpectQuery(q(`SELECT COALESCE(SUM(amount), 0) FROM "donations" WHERE user_id = $1 AND status = $2`)).
		WithArgs("u1", models.DonationCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(15000))

	total, err := NewDonationRepository(s.db).CompletedTotalByUser(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(int64(15000), total)
}

func (s *RepositorySuite) TestDonationTotalsByMethod() {
	s.mock.ExpectQuery(q(`SELECT method, COALESCE(SUM(amount), 0) AS total_amount, COUNT(*) AS count FROM "donations" WHERE status = $1 GROUP BY "method" ORDER BY method asc`)).
		WithArgs(models.DonationCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"method", "total_amount", "count"}).
			AddRow("momo", 5000, 2).
			AddRow("paypal", 20000, 1))

	totals, err := NewDonationRepository(s.db).CompletedTotalsByMethod(s.ctx)
	s.Require().NoError(err)
	s.Equal([]MethodTotal{
		{Method: "momo", TotalAmount: 5000, Count: 2},
		{Method: "paypal", TotalAmount: 20000, Count: 1},
	}, totals)
}

// toDriverArgs turns plain values into sqlmock expectations.
func toDriverArgs(args []any) []driver.Value {
	out := make([]driver.Value, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}
