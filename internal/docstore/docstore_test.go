package docstore

import (
	"context"
	"encoding/json"
	"testing"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type DocstoreTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	client  *Client
	context context.Context
}

func (suite *DocstoreTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.client = NewClient(mock)
	suite.context = context.Background()
}

func (suite *DocstoreTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestDocstoreTestSuite(t *testing.T) {
	suite.Run(t, new(DocstoreTestSuite))
}

type ownerDoc struct {
	FirstName   string `json:"first_name"`
	OrderStatus string `json:"order_status"`
}

func (suite *DocstoreTestSuite) TestGet_Success() {
	suite.mock.ExpectQuery(`SELECT data FROM documents WHERE collection = \$1 AND id = \$2`).
		WithArgs("house_owners", "uid-1").
		WillReturnRows(pgxmock.NewRows([]string{"data"}).
			AddRow([]byte(`{"first_name":"John","order_status":"pending"}`)))

	var doc ownerDoc
	err := suite.client.Collection("house_owners").Get(suite.context, "uid-1", &doc)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "John", doc.FirstName)
	assert.Equal(suite.T(), "pending", doc.OrderStatus)
}

func (suite *DocstoreTestSuite) TestGet_NotFound() {
	suite.mock.ExpectQuery(`SELECT data FROM documents WHERE collection = \$1 AND id = \$2`).
		WithArgs("house_owners", "missing").
		WillReturnError(pgx.ErrNoRows)

	var doc ownerDoc
	err := suite.client.Collection("house_owners").Get(suite.context, "missing", &doc)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *DocstoreTestSuite) TestSet_Upserts() {
	doc := ownerDoc{FirstName: "John", OrderStatus: "pending"}
	data, err := json.Marshal(doc)
	assert.NoError(suite.T(), err)

	suite.mock.ExpectExec(`INSERT INTO documents \(collection, id, data\)`).
		WithArgs("house_owners", "uid-1", data).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = suite.client.Collection("house_owners").Set(suite.context, "uid-1", &doc)
	assert.NoError(suite.T(), err)
}

func (suite *DocstoreTestSuite) TestMerge_ShallowMergesFields() {
	fields := map[string]interface{}{"name": "New Name"}
	data, err := json.Marshal(fields)
	assert.NoError(suite.T(), err)

	suite.mock.ExpectExec(`ON CONFLICT \(collection, id\) DO UPDATE SET data = documents\.data \|\| EXCLUDED\.data`).
		WithArgs("profiles", "uid-1", data).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = suite.client.Collection("profiles").Merge(suite.context, "uid-1", fields)
	assert.NoError(suite.T(), err)
}

func (suite *DocstoreTestSuite) TestQueryEqual_FiltersOnField() {
	suite.mock.ExpectQuery(`SELECT id, data FROM documents WHERE collection = \$1 AND data->>\$2 = \$3`).
		WithArgs("house_owners", "order_status", "pending").
		WillReturnRows(pgxmock.NewRows([]string{"id", "data"}).
			AddRow("uid-1", []byte(`{"first_name":"John","order_status":"pending"}`)).
			AddRow("uid-2", []byte(`{"first_name":"Jane","order_status":"pending"}`)))

	var ids []string
	err := suite.client.Collection("house_owners").QueryEqual(suite.context, "order_status", "pending",
		func(id string, data []byte) error {
			ids = append(ids, id)
			return nil
		})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"uid-1", "uid-2"}, ids)
}

func (suite *DocstoreTestSuite) TestStreamAll_VisitsEveryDocument() {
	suite.mock.ExpectQuery(`SELECT id, data FROM documents WHERE collection = \$1`).
		WithArgs("house_owners").
		WillReturnRows(pgxmock.NewRows([]string{"id", "data"}).
			AddRow("uid-1", []byte(`{"first_name":"John"}`)).
			AddRow("uid-2", []byte(`{"first_name":"Jane"}`)))

	count := 0
	err := suite.client.Collection("house_owners").StreamAll(suite.context,
		func(id string, data []byte) error {
			count++
			return nil
		})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, count)
}

func (suite *DocstoreTestSuite) TestStreamAll_StopsOnCallbackError() {
	suite.mock.ExpectQuery(`SELECT id, data FROM documents WHERE collection = \$1`).
		WithArgs("house_owners").
		WillReturnRows(pgxmock.NewRows([]string{"id", "data"}).
			AddRow("uid-1", []byte(`{"first_name":"John"}`)).
			AddRow("uid-2", []byte(`{"first_name":"Jane"}`)))

	stop := assert.AnError
	visited := 0
	err := suite.client.Collection("house_owners").StreamAll(suite.context,
		func(id string, data []byte) error {
			visited++
			return stop
		})
	assert.ErrorIs(suite.T(), err, stop)
	assert.Equal(suite.T(), 1, visited)
}
