package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/afriroots/afriroots-api/internal/domain"
)

func TestAccountDocument_RoundTrip(t *testing.T) {
	acc := &domain.Account{
		ID:           "id-1",
		Email:        "a@x.com",
		Phone:        strPtr("+2348000000000"),
		PasswordHash: "digest",
		Role:         domain.RoleCommunityMember,
		Tribe:        strPtr("igbo"),
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	raw, err := bson.Marshal(toAccountDocument(acc))
	assert.NoError(t, err)

	var doc accountDocument
	assert.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, acc, doc.toDomain())

	var generic bson.M
	assert.NoError(t, bson.Unmarshal(raw, &generic))
	assert.Equal(t, "id-1", generic["_id"])
	assert.NotContains(t, generic, "language")
}

func TestContentQuery(t *testing.T) {
	assert.Equal(t, bson.M{}, contentQuery(ContentFilter{}))
	assert.Equal(t,
		bson.M{"tribe": "akan", "language": "tw"},
		contentQuery(ContentFilter{Tribe: strPtr("akan"), Language: strPtr("tw")}),
	)
}

func TestIsPhoneIndexViolation(t *testing.T) {
	phoneErr := mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: afriroots.accounts index: accounts_phone_unique dup key",
	}}}
	emailErr := mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: afriroots.accounts index: accounts_email_unique dup key",
	}}}

	assert.True(t, isPhoneIndexViolation(phoneErr))
	assert.False(t, isPhoneIndexViolation(emailErr))
}
