package quota

import (
	"context"
	"errors"
	"time"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var _ MongoMapper = (*mongoMapper)(nil)

const (
	collection = "quota"
	period     = 24 * time.Hour
)

type MongoMapper interface {
	// Consume 原子累计用量并返回累计后的配额行
	Consume(ctx context.Context, uid string, tokens, requests, attachmentMB int64) (q *Quota, err error)
	// Current 查询当前周期用量, 周期已过期时返回零值周期
	Current(ctx context.Context, uid string) (q *Quota, err error)
	// Release 回退一次预留, 上传签发失败时使用
	Release(ctx context.Context, uid string, attachmentMB int64) (err error)
}

type mongoMapper struct {
	conn *monc.Model
}

func NewQuotaMongoMapper(config *config.Config) MongoMapper {
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, collection, config.Cache)
	return &mongoMapper{conn: conn}
}

func (m *mongoMapper) Consume(ctx context.Context, uid string, tokens, requests, attachmentMB int64) (q *Quota, err error) {
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	floor := now.Add(-period)

	// 周期内直接原子累加
	inc := func() (*Quota, error) {
		q := new(Quota)
		err := m.conn.FindOneAndUpdateNoCache(ctx, q,
			currentPeriodFilter(oid, floor), consumeUpdate(tokens, requests, attachmentMB, now),
			options.FindOneAndUpdate().SetReturnDocument(options.After))
		return q, err
	}
	if q, err = inc(); err == nil {
		return q, nil
	}
	if !errors.Is(err, monc.ErrNotFound) && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// 周期过期: 把过期行清零重开, 过滤条件保证并发下只清一次
	if _, err = m.conn.UpdateOneNoCache(ctx, expiredPeriodFilter(oid, floor), resetUpdate(now)); err != nil {
		return nil, err
	}

	// 首次使用: 插入零值行, 行已存在时$setOnInsert不生效
	if _, err = m.conn.UpdateOneNoCache(ctx, bson.M{cst.Id: oid}, insertUpdate(now),
		options.UpdateOne().SetUpsert(true)); err != nil && !mongo.IsDuplicateKeyError(err) {
		return nil, err
	}

	// 此时必有当前周期的行, 重跑累加
	return inc()
}

func currentPeriodFilter(oid primitive.ObjectID, floor time.Time) bson.M {
	return bson.M{cst.Id: oid, cst.PeriodStart: bson.M{cst.GT: floor}}
}

func expiredPeriodFilter(oid primitive.ObjectID, floor time.Time) bson.M {
	return bson.M{cst.Id: oid, cst.PeriodStart: bson.M{cst.LTE: floor}}
}

func consumeUpdate(tokens, requests, attachmentMB int64, now time.Time) bson.M {
	return bson.M{
		cst.Inc: bson.M{cst.Tokens: tokens, cst.Requests: requests, cst.AttachmentMB: attachmentMB},
		cst.Set: bson.M{cst.UpdateTime: now},
	}
}

func resetUpdate(now time.Time) bson.M {
	return bson.M{cst.Set: bson.M{
		cst.PeriodStart: now, cst.Tokens: int64(0), cst.Requests: int64(0),
		cst.AttachmentMB: int64(0), cst.UpdateTime: now,
	}}
}

func insertUpdate(now time.Time) bson.M {
	return bson.M{cst.SetOnInsert: bson.M{
		cst.PeriodStart: now, cst.Tokens: int64(0), cst.Requests: int64(0),
		cst.AttachmentMB: int64(0), cst.UpdateTime: now,
	}}
}

func (m *mongoMapper) Current(ctx context.Context, uid string) (q *Quota, err error) {
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return nil, err
	}
	q = new(Quota)
	err = m.conn.FindOneNoCache(ctx, q, bson.M{cst.Id: oid, cst.PeriodStart: bson.M{cst.GT: time.Now().Add(-period)}})
	if errors.Is(err, monc.ErrNotFound) || errors.Is(err, mongo.ErrNoDocuments) {
		return &Quota{UserId: oid, PeriodStart: time.Now()}, nil
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (m *mongoMapper) Release(ctx context.Context, uid string, attachmentMB int64) (err error) {
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return err
	}
	_, err = m.conn.UpdateOneNoCache(ctx, bson.M{cst.Id: oid},
		bson.M{cst.Inc: bson.M{cst.AttachmentMB: -attachmentMB}, cst.Set: bson.M{cst.UpdateTime: time.Now()}})
	return err
}
