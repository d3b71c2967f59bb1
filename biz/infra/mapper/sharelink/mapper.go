package sharelink

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/util"
	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var _ MongoMapper = (*mongoMapper)(nil)

const (
	collection     = "sharelink"
	cacheKeyPrefix = "cache:sharelink:"
)

type MongoMapper interface {
	CreateShareLink(ctx context.Context, uid, tid, mode, scope string, expire time.Duration) (s *ShareLink, err error)
	FindByToken(ctx context.Context, token string) (s *ShareLink, err error)
	RevokeShareLink(ctx context.Context, uid, token string) (err error)
}

type mongoMapper struct {
	conn *monc.Model
}

func NewShareLinkMongoMapper(config *config.Config) MongoMapper {
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, collection, config.Cache)
	return &mongoMapper{conn: conn}
}

// CreateShareLink 创建分享链接, token为随机串
func (m *mongoMapper) CreateShareLink(ctx context.Context, uid, tid, mode, scope string, expire time.Duration) (s *ShareLink, err error) {
	oids, err := util.ObjectIDsFromHex(uid, tid)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 16)
	if _, err = rand.Read(buf); err != nil {
		return nil, err
	}
	now := time.Now()
	s = &ShareLink{
		ShareId:    primitive.NewObjectID(),
		Token:      hex.EncodeToString(buf),
		ThreadId:   oids[1],
		UserId:     oids[0],
		Mode:       mode,
		Scope:      scope,
		CreateTime: now,
	}
	if expire > 0 {
		s.ExpireTime = now.Add(expire)
	}
	_, err = m.conn.InsertOne(ctx, cacheKeyPrefix+s.Token, s)
	return s, err
}

// FindByToken 按token查找有效链接, 过期与撤销均视为不存在
func (m *mongoMapper) FindByToken(ctx context.Context, token string) (s *ShareLink, err error) {
	s = new(ShareLink)
	filter := bson.M{cst.Token: token, cst.Status: bson.M{cst.NE: cst.DeletedStatus}}
	if err = m.conn.FindOne(ctx, cacheKeyPrefix+token, s, filter); err != nil {
		return nil, err
	}
	if !s.ExpireTime.IsZero() && time.Now().After(s.ExpireTime) {
		return nil, monc.ErrNotFound
	}
	return s, nil
}

// RevokeShareLink 撤销本人创建的链接
func (m *mongoMapper) RevokeShareLink(ctx context.Context, uid, token string) (err error) {
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return err
	}
	filter := bson.M{cst.Token: token, cst.UserId: oid, cst.Status: bson.M{cst.NE: cst.DeletedStatus}}
	_, err = m.conn.UpdateOne(ctx, cacheKeyPrefix+token, filter,
		bson.M{cst.Set: bson.M{cst.Status: cst.DeletedStatus}})
	return err
}
