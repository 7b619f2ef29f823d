package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockProvider) SignUp(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) GetUser(ctx context.Context, uid string) (*UserRecord, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserRecord), args.Error(1)
}

type TokenVerifierTestSuite struct {
	suite.Suite
	key          *rsa.PrivateKey
	mockProvider *MockProvider
	verifier     *TokenVerifier
	ctx          context.Context
}

func (suite *TokenVerifierTestSuite) SetupSuite() {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	assert.NoError(suite.T(), err)
	suite.key = key
}

func (suite *TokenVerifierTestSuite) SetupTest() {
	suite.mockProvider = &MockProvider{}
	suite.mockProvider.Test(suite.T())
	kf := func(token *jwt.Token) (interface{}, error) {
		return &suite.key.PublicKey, nil
	}
	suite.verifier = NewTokenVerifier(kf, suite.mockProvider, "", "")
	suite.ctx = context.Background()
}

func (suite *TokenVerifierTestSuite) TearDownTest() {
	suite.mockProvider.AssertExpectations(suite.T())
}

func TestTokenVerifierTestSuite(t *testing.T) {
	suite.Run(t, new(TokenVerifierTestSuite))
}

func (suite *TokenVerifierTestSuite) signToken(claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(suite.key)
	assert.NoError(suite.T(), err)
	return signed
}

func (suite *TokenVerifierTestSuite) activeUser() *UserRecord {
	return &UserRecord{
		UID:   "uid-1",
		Email: "user@example.com",
	}
}

func (suite *TokenVerifierTestSuite) TestVerify_ValidToken() {
	suite.mockProvider.On("GetUser", suite.ctx, "uid-1").Return(suite.activeUser(), nil)

	idToken := suite.signToken(jwt.MapClaims{
		"sub":   "uid-1",
		"email": "token@example.com",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claims, err := suite.verifier.Verify(suite.ctx, idToken)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "uid-1", claims.UID)
	assert.Equal(suite.T(), "token@example.com", claims.Email)
}

func (suite *TokenVerifierTestSuite) TestVerify_EmailFallsBackToUserRecord() {
	suite.mockProvider.On("GetUser", suite.ctx, "uid-1").Return(suite.activeUser(), nil)

	idToken := suite.signToken(jwt.MapClaims{
		"sub": "uid-1",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := suite.verifier.Verify(suite.ctx, idToken)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "user@example.com", claims.Email)
}

func (suite *TokenVerifierTestSuite) TestVerify_ExpiredToken() {
	idToken := suite.signToken(jwt.MapClaims{
		"sub": "uid-1",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := suite.verifier.Verify(suite.ctx, idToken)
	assert.ErrorIs(suite.T(), err, ErrTokenExpired)
	suite.mockProvider.AssertNotCalled(suite.T(), "GetUser", mock.Anything, mock.Anything)
}

func (suite *TokenVerifierTestSuite) TestVerify_WrongSigningKey() {
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	assert.NoError(suite.T(), err)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": "uid-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	idToken, err := token.SignedString(otherKey)
	assert.NoError(suite.T(), err)

	_, verifyErr := suite.verifier.Verify(suite.ctx, idToken)
	assert.ErrorIs(suite.T(), verifyErr, ErrInvalidToken)
}

func (suite *TokenVerifierTestSuite) TestVerify_MissingSubject() {
	idToken := suite.signToken(jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := suite.verifier.Verify(suite.ctx, idToken)
	assert.ErrorIs(suite.T(), err, ErrInvalidToken)
}

func (suite *TokenVerifierTestSuite) TestVerify_DisabledAccount() {
	user := suite.activeUser()
	user.Disabled = true
	suite.mockProvider.On("GetUser", suite.ctx, "uid-1").Return(user, nil)

	idToken := suite.signToken(jwt.MapClaims{
		"sub": "uid-1",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := suite.verifier.Verify(suite.ctx, idToken)
	assert.ErrorIs(suite.T(), err, ErrUserDisabled)
}

func (suite *TokenVerifierTestSuite) TestVerify_RevokedToken() {
	user := suite.activeUser()
	// Tokens issued before validSince are revoked.
	user.ValidSince = time.Now().Add(time.Minute)
	suite.mockProvider.On("GetUser", suite.ctx, "uid-1").Return(user, nil)

	idToken := suite.signToken(jwt.MapClaims{
		"sub": "uid-1",
		"iat": time.Now().Add(-time.Hour).Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := suite.verifier.Verify(suite.ctx, idToken)
	assert.ErrorIs(suite.T(), err, ErrTokenRevoked)
}

func (suite *TokenVerifierTestSuite) TestVerify_AudienceMismatch() {
	verifier := NewTokenVerifier(func(token *jwt.Token) (interface{}, error) {
		return &suite.key.PublicKey, nil
	}, suite.mockProvider, "expected-project", "")

	idToken := suite.signToken(jwt.MapClaims{
		"sub": "uid-1",
		"aud": "other-project",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := verifier.Verify(suite.ctx, idToken)
	assert.ErrorIs(suite.T(), err, ErrInvalidToken)
}

func (suite *TokenVerifierTestSuite) TestVerify_ProviderLookupFailure() {
	suite.mockProvider.On("GetUser", suite.ctx, "uid-1").
		Return(nil, &ProviderError{Code: "USER_NOT_FOUND"})

	idToken := suite.signToken(jwt.MapClaims{
		"sub": "uid-1",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := suite.verifier.Verify(suite.ctx, idToken)
	assert.ErrorIs(suite.T(), err, ErrInvalidToken)
}
