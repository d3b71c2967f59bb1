package quota

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
)

// 周期累加全部走$inc, 换周期只做条件清零与$setOnInsert插入
// 任何路径都不允许对计数字段做无条件$set, 否则并发累加会互相覆盖

func TestConsumeUpdateUsesIncOnly(t *testing.T) {
	u := consumeUpdate(10, 1, 2, time.Now())
	inc, ok := u[cst.Inc].(bson.M)
	require.True(t, ok)
	assert.Equal(t, int64(10), inc[cst.Tokens])
	assert.Equal(t, int64(1), inc[cst.Requests])
	assert.Equal(t, int64(2), inc[cst.AttachmentMB])

	set, ok := u[cst.Set].(bson.M)
	require.True(t, ok)
	for _, counter := range []string{cst.Tokens, cst.Requests, cst.AttachmentMB} {
		assert.NotContains(t, set, counter)
	}
}

func TestResetOnlyMatchesExpiredPeriod(t *testing.T) {
	oid := primitive.NewObjectID()
	floor := time.Now().Add(-24 * time.Hour)

	f := expiredPeriodFilter(oid, floor)
	assert.Equal(t, bson.M{cst.LTE: floor}, f[cst.PeriodStart])

	u := resetUpdate(time.Now())
	set, ok := u[cst.Set].(bson.M)
	require.True(t, ok)
	assert.Equal(t, int64(0), set[cst.Tokens])
	assert.Equal(t, int64(0), set[cst.Requests])
	assert.Equal(t, int64(0), set[cst.AttachmentMB])
}

func TestInsertNeverOverwritesExisting(t *testing.T) {
	u := insertUpdate(time.Now())
	_, hasSet := u[cst.Set]
	assert.False(t, hasSet)
	onInsert, ok := u[cst.SetOnInsert].(bson.M)
	require.True(t, ok)
	assert.Equal(t, int64(0), onInsert[cst.Tokens])
	assert.Contains(t, onInsert, cst.PeriodStart)
}
