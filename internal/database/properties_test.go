package database

import (
	"context"
	"regexp"
	"testing"

	"hl-portal/internal/media"
	"hl-portal/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStores(t *testing.T) (Stores, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	gdb, err := NewGormDBFromConn(conn)
	require.NoError(t, err)
	return gdb.Stores(), mock
}

func TestPropertyStore_List_OrdersNullSerialsLastAndCounts(t *testing.T) {
	stores, mock := newMockStores(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `properties` WHERE project_status = ?")).
		WithArgs("Ongoing").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY CASE WHEN home_serial IS NULL THEN 1 ELSE 0 END, home_serial ASC, id ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "home_serial"}).
			AddRow(3, "A", "a", 1).
			AddRow(1, "B", "b", 2).
			AddRow(2, "C", "c", nil))

	props, total, err := stores.Properties.List(context.Background(), ListFilter{
		Page:          2,
		PageSize:      3,
		ProjectStatus: "Ongoing",
		Location:      "default",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 12, total)
	require.Len(t, props, 3)
	assert.Nil(t, props[2].HomeSerial)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListFilter_Normalize(t *testing.T) {
	f := ListFilter{Page: 0, PageSize: 500, ProjectStatus: " Default ", Location: "Gulshan"}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.PageSize)
	assert.Empty(t, f.ProjectStatus)
	assert.Equal(t, "Gulshan", f.Location)

	assert.Equal(t, 10, ListFilter{}.Normalize().PageSize)
}

func TestPropertyStore_Create_DuplicateSlugRollsBack(t *testing.T) {
	stores, mock := newMockStores(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `properties`")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'villa-1' for key 'slug'"})
	mock.ExpectRollback()

	_, err := stores.Properties.Create(context.Background(), &models.Property{Name: "Villa", Slug: "villa-1"})
	require.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyStore_Create_InsertsAndRefetchesInTransaction(t *testing.T) {
	stores, mock := newMockStores(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `properties`")).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `properties` WHERE `properties`.`id` = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "img_thub"}).AddRow(5, "Villa", "villa-1", []byte{1}))
	mock.ExpectCommit()

	p, err := stores.Properties.Create(context.Background(), &models.Property{Name: "Villa", Slug: "villa-1", ImgThub: []byte{1}})
	require.NoError(t, err)
	assert.EqualValues(t, 5, p.ID)
	assert.Equal(t, []byte{1}, p.ImgThub)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyStore_Create_ConnectionLoss(t *testing.T) {
	stores, mock := newMockStores(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `properties`")).WillReturnError(mysql.ErrInvalidConn)
	mock.ExpectRollback()

	_, err := stores.Properties.Create(context.Background(), &models.Property{Slug: "x"})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestPropertyStore_Delete_WithoutAmenityRow(t *testing.T) {
	stores, mock := newMockStores(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `amenities` WHERE id = ?")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `properties` WHERE id = ?")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, stores.Properties.Delete(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyStore_Delete_Missing(t *testing.T) {
	stores, mock := newMockStores(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `amenities`")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `properties`")).WillReturnResult(sqlmock.NewResult(0, 0))

	err := stores.Properties.Delete(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPropertyStore_Update_DeletesOnlyFlaggedImage(t *testing.T) {
	stores, mock := newMockStores(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT `id` FROM `properties` WHERE `properties`.`id` = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `properties` SET `img_hero`=? WHERE id = ?")).
		WithArgs(nil, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `properties` WHERE `properties`.`id` = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "img_thub", "img_hero"}).AddRow(4, []byte{1}, nil))

	updates := media.Updates{"img_thub": media.KeepImage(), "img_hero": media.DeleteImage()}
	p, err := stores.Properties.Update(context.Background(), 4, nil, updates)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, p.ImgThub)
	assert.Nil(t, p.ImgHero)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyStore_SwapSerials(t *testing.T) {
	stores, mock := newMockStores(t)
	one, two := 1, 2

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `id` FROM `properties` WHERE id IN (?,?) FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `properties` SET `home_serial`=? WHERE id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `properties` SET `home_serial`=? WHERE id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := stores.Properties.SwapSerials(context.Background(),
		SerialAssignment{ID: 10, HomeSerial: &two},
		SerialAssignment{ID: 11, HomeSerial: &one})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyStore_SwapSerials_MissingSideChangesNothing(t *testing.T) {
	stores, mock := newMockStores(t)
	one := 1

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectRollback()

	err := stores.Properties.SwapSerials(context.Background(),
		SerialAssignment{ID: 10, HomeSerial: &one},
		SerialAssignment{ID: 404})
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyStore_Detail_WithoutAmenityOrAgent(t *testing.T) {
	stores, mock := newMockStores(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `properties` WHERE slug = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "agent_id"}).AddRow(4, "Villa", "villa-1", nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `amenities` WHERE `amenities`.`id` = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	d, err := stores.Properties.Detail(context.Background(), "villa-1")
	require.NoError(t, err)
	assert.Equal(t, "Villa", d.Property.Name)
	assert.Nil(t, d.Amenity)
	assert.Nil(t, d.Agent)
	require.NoError(t, mock.ExpectationsWereMet())
}

const publicSelect = "SELECT `id`,`name`,`slug`,`home_serial`,`address`,`land_area`,`flat_size`," +
	"`building_type`,`project_status`,`location`,`img_thub` FROM `properties`"

func TestPropertyStore_ListPublic_HomepageAndFilters(t *testing.T) {
	stores, mock := newMockStores(t)

	mock.ExpectQuery(regexp.QuoteMeta(publicSelect+
		" WHERE project_status = ? AND location = ? ORDER BY "+serialOrder+" LIMIT ?") + "$").
		WithArgs("Ongoing", "Gulshan", HomepageLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug"}).AddRow(1, "a"))

	props, err := stores.Properties.ListPublic(context.Background(), PublicFilter{
		Location:      "Gulshan",
		ProjectStatus: "Ongoing",
		FromHomepage:  true,
	})
	require.NoError(t, err)
	require.Len(t, props, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyStore_ListPublic_DefaultFiltersAndNoCap(t *testing.T) {
	stores, mock := newMockStores(t)

	mock.ExpectQuery(regexp.QuoteMeta(publicSelect+" ORDER BY "+serialOrder) + "$").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug"}).AddRow(1, "a").AddRow(2, "b"))

	props, err := stores.Properties.ListPublic(context.Background(), PublicFilter{
		Location:      "default",
		ProjectStatus: " Default",
	})
	require.NoError(t, err)
	assert.Len(t, props, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyStore_Similar_NormalizesStoredFlatSize(t *testing.T) {
	stores, mock := newMockStores(t)

	mock.ExpectQuery(regexp.QuoteMeta(publicSelect+
		" WHERE slug <> ? ORDER BY ABS(CAST(REPLACE(flat_size, ',', '') AS DECIMAL(12,2)) - ?), id LIMIT ?") + "$").
		WithArgs("villa-1", 1250.0, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "flat_size"}).
			AddRow(8, "villa-8", "1,250 sqft").
			AddRow(3, "villa-3", "1300"))

	props, err := stores.Properties.Similar(context.Background(), "villa-1", 1250, 0)
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, "villa-8", props[0].Slug)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyStore_Detail_WithAmenityAndAgent(t *testing.T) {
	stores, mock := newMockStores(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `properties` WHERE slug = ?")).
		WithArgs("villa-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "agent_id"}).AddRow(4, "Villa", "villa-1", int64(2)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `amenities` WHERE `amenities`.`id` = ?")).
		WithArgs(int64(4), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "bedrooms", "parking", "gym"}).
			AddRow(int64(4), int64(3), int64(0), int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `agent` WHERE `agent`.`id` = ?")).
		WithArgs(int64(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone_number"}).AddRow(int64(2), "Rahim", "+880100"))

	d, err := stores.Properties.Detail(context.Background(), "villa-1")
	require.NoError(t, err)
	require.NotNil(t, d.Amenity)
	require.NotNil(t, d.Amenity.Bedrooms)
	assert.Equal(t, 3, *d.Amenity.Bedrooms)
	assert.Equal(t, models.AmenityPresent, d.Amenity.Parking)
	assert.Equal(t, models.AmenityAbsent, d.Amenity.Gym)
	assert.Equal(t, models.AmenityUnset, d.Amenity.Lift)
	require.NotNil(t, d.Agent)
	assert.Equal(t, "Rahim", d.Agent.Name)
	assert.Equal(t, "+880100", d.Agent.Phone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadStore_SubscribeTwice(t *testing.T) {
	stores, mock := newMockStores(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `newsletter`")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	created, err := stores.Leads.Subscribe(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.False(t, created)
}
