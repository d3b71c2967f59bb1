package attachment

import (
	"context"
	"time"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/util"
	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var _ MongoMapper = (*mongoMapper)(nil)

const (
	collection     = "attachment"
	cacheKeyPrefix = "cache:attachment:"
)

type MongoMapper interface {
	InsertPending(ctx context.Context, a *Attachment) (err error)
	FindOne(ctx context.Context, uid, aid string) (a *Attachment, err error)
	MarkComplete(ctx context.Context, uid, aid string) (err error)
	DeleteAttachment(ctx context.Context, uid, aid string) (err error)
}

type mongoMapper struct {
	conn *monc.Model
}

func NewAttachmentMongoMapper(config *config.Config) MongoMapper {
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, collection, config.Cache)
	return &mongoMapper{conn: conn}
}

// InsertPending 写入pending附件行
func (m *mongoMapper) InsertPending(ctx context.Context, a *Attachment) (err error) {
	now := time.Now()
	a.UploadStatus = cst.UploadPending
	a.CreateTime, a.UpdateTime = now, now
	_, err = m.conn.InsertOne(ctx, cacheKeyPrefix+a.AttachmentId.Hex(), a)
	return err
}

func (m *mongoMapper) FindOne(ctx context.Context, uid, aid string) (a *Attachment, err error) {
	oids, err := util.ObjectIDsFromHex(uid, aid)
	if err != nil {
		return nil, err
	}
	a = new(Attachment)
	filter := bson.M{cst.Id: oids[1], cst.UserId: oids[0], cst.Status: bson.M{cst.NE: cst.DeletedStatus}}
	if err = m.conn.FindOne(ctx, cacheKeyPrefix+aid, a, filter); err != nil {
		return nil, err
	}
	return a, nil
}

// MarkComplete 客户端上传完成后落定
func (m *mongoMapper) MarkComplete(ctx context.Context, uid, aid string) (err error) {
	oids, err := util.ObjectIDsFromHex(uid, aid)
	if err != nil {
		return err
	}
	filter := bson.M{cst.Id: oids[1], cst.UserId: oids[0], cst.Status: bson.M{cst.NE: cst.DeletedStatus}}
	_, err = m.conn.UpdateOne(ctx, cacheKeyPrefix+aid, filter,
		bson.M{cst.Set: bson.M{"upload_status": cst.UploadComplete, cst.UpdateTime: time.Now()}})
	return err
}

// DeleteAttachment 软删除附件
func (m *mongoMapper) DeleteAttachment(ctx context.Context, uid, aid string) (err error) {
	oids, err := util.ObjectIDsFromHex(uid, aid)
	if err != nil {
		return err
	}
	filter := bson.M{cst.Id: oids[1], cst.UserId: oids[0], cst.Status: bson.M{cst.NE: cst.DeletedStatus}}
	_, err = m.conn.UpdateOne(ctx, cacheKeyPrefix+aid, filter,
		bson.M{cst.Set: bson.M{cst.UpdateTime: time.Now(), cst.Status: cst.DeletedStatus}})
	return err
}
