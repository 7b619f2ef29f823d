package repositories

import (
	"context"
	"testing"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"tenantvolt/internal/docstore"
	"tenantvolt/internal/models"
)

type OwnerRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    OwnerRepository
	context context.Context
}

func (suite *OwnerRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewOwnerRepo(docstore.NewClient(mock))
	suite.context = context.Background()
}

func (suite *OwnerRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestOwnerRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OwnerRepoTestSuite))
}

func (suite *OwnerRepoTestSuite) TestGetByUID_SetsUIDFromDocumentID() {
	suite.mock.ExpectQuery(`SELECT data FROM documents WHERE collection = \$1 AND id = \$2`).
		WithArgs("house_owners", "uid-1").
		WillReturnRows(pgxmock.NewRows([]string{"data"}).
			AddRow([]byte(`{"first_name":"John","last_name":"Doe","order_status":"pending","tenants":[{"name":"Alice","product_id":"1112"}]}`)))

	owner, err := suite.repo.GetByUID(suite.context, "uid-1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "uid-1", owner.UID)
	assert.Equal(suite.T(), "John", owner.FirstName)
	assert.Equal(suite.T(), models.OrderStatusPending, owner.OrderStatus)
	assert.Len(suite.T(), owner.Tenants, 1)
	assert.Equal(suite.T(), "1112", owner.Tenants[0].ProductID)
}

func (suite *OwnerRepoTestSuite) TestGetByUID_NotFound() {
	suite.mock.ExpectQuery(`SELECT data FROM documents WHERE collection = \$1 AND id = \$2`).
		WithArgs("house_owners", "missing").
		WillReturnError(pgx.ErrNoRows)

	owner, err := suite.repo.GetByUID(suite.context, "missing")
	assert.ErrorIs(suite.T(), err, ErrOwnerNotFound)
	assert.Nil(suite.T(), owner)
}

func (suite *OwnerRepoTestSuite) TestSave_DoesNotPersistUIDField() {
	owner := &models.Owner{
		UID:         "uid-1",
		FirstName:   "John",
		OrderStatus: models.OrderStatusPending,
	}

	suite.mock.ExpectExec(`INSERT INTO documents \(collection, id, data\)`).
		WithArgs("house_owners", "uid-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Save(suite.context, "uid-1", owner)
	assert.NoError(suite.T(), err)
	// The in-memory owner keeps its uid.
	assert.Equal(suite.T(), "uid-1", owner.UID)
}

func (suite *OwnerRepoTestSuite) TestListByStatus_QueriesOnOrderStatus() {
	suite.mock.ExpectQuery(`SELECT id, data FROM documents WHERE collection = \$1 AND data->>\$2 = \$3`).
		WithArgs("house_owners", "order_status", "pending").
		WillReturnRows(pgxmock.NewRows([]string{"id", "data"}).
			AddRow("uid-1", []byte(`{"first_name":"John","order_status":"pending"}`)))

	owners, err := suite.repo.ListByStatus(suite.context, models.OrderStatusPending)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), owners, 1)
	assert.Equal(suite.T(), "uid-1", owners[0].UID)
}

func (suite *OwnerRepoTestSuite) TestStreamAll_DecodesEachOwner() {
	suite.mock.ExpectQuery(`SELECT id, data FROM documents WHERE collection = \$1`).
		WithArgs("house_owners").
		WillReturnRows(pgxmock.NewRows([]string{"id", "data"}).
			AddRow("uid-1", []byte(`{"first_name":"John"}`)).
			AddRow("uid-2", []byte(`{"first_name":"Jane"}`)))

	var uids []string
	err := suite.repo.StreamAll(suite.context, func(owner *models.Owner) error {
		uids = append(uids, owner.UID)
		return nil
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"uid-1", "uid-2"}, uids)
}
