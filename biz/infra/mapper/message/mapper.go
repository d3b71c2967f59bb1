package message

import (
	"context"
	"errors"

	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/basic"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/util"
	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx"
	"github.com/xh-polaris/brandstudio-core-api/pkg/logs"
	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var _ MongoMapper = (*mongoMapper)(nil)

const collection = "message"

type MongoMapper interface {
	InsertOne(ctx context.Context, msg *Message) error
	FindOne(ctx context.Context, mid primitive.ObjectID) (msg *Message, err error)
	RetrieveMessages(ctx context.Context, thread string, size int) (msgs []*Message, err error)
	ListMessage(ctx context.Context, thread string, page *basic.Page) (msgs []*Message, hasMore bool, err error)
	Finalize(ctx context.Context, mid primitive.ObjectID, content string, usage *Usage) (err error)
	UpdateStatus(ctx context.Context, mid primitive.ObjectID, status int32) (err error)
}

type mongoMapper struct {
	conn *monc.Model
}

func NewMessageMongoMapper(config *config.Config) MongoMapper {
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, collection, config.Cache)
	return &mongoMapper{conn: conn}
}

// InsertOne 插入一条msg
func (m *mongoMapper) InsertOne(ctx context.Context, msg *Message) error {
	_, err := m.conn.InsertOneNoCache(ctx, msg)
	return err
}

func (m *mongoMapper) FindOne(ctx context.Context, mid primitive.ObjectID) (msg *Message, err error) {
	msg = new(Message)
	if err = m.conn.FindOneNoCache(ctx, msg, bson.M{cst.Id: mid, cst.Status: bson.M{cst.NE: cst.DeletedStatus}}); err != nil {
		return nil, err
	}
	return msg, nil
}

// RetrieveMessages 按时间倒序取出size条msg记录, 为0则取出所有的
func (m *mongoMapper) RetrieveMessages(ctx context.Context, thread string, size int) (msgs []*Message, err error) {
	oid, err := primitive.ObjectIDFromHex(thread)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.M{cst.CreateTime: -1})
	if size > 0 {
		opts.SetLimit(int64(size))
	}
	if err = m.conn.Find(ctx, &msgs, bson.M{cst.ThreadId: oid, cst.Status: bson.M{cst.NE: cst.DeletedStatus}},
		opts); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		logs.Errorf("[message mapper] find err:%s", errorx.ErrorWithoutStack(err))
		return nil, err
	}
	return msgs, nil
}

// ListMessage 游标分页获取Message
func (m *mongoMapper) ListMessage(ctx context.Context, thread string, page *basic.Page) (msgs []*Message, hasMore bool, err error) {
	otid, err := primitive.ObjectIDFromHex(thread)
	if err != nil {
		return nil, false, err
	}
	opts := options.Find().SetSort(bson.M{cst.Id: -1}).SetLimit(page.GetSize() + 1)
	filter := bson.M{cst.ThreadId: otid, cst.Status: bson.M{cst.NE: cst.DeletedStatus}}
	if page != nil && page.Cursor != nil { // 创建时间更小的
		cursor, err := primitive.ObjectIDFromHex(*page.Cursor)
		if err != nil {
			return nil, false, err
		}
		filter[cst.Id] = bson.M{cst.LT: cursor}
	}
	if err = m.conn.Find(ctx, &msgs, filter, opts); err != nil {
		logs.Errorf("[message mapper] find err:%s", errorx.ErrorWithoutStack(err))
		return nil, false, err
	}
	msgs, hasMore = util.SplitAndHasMore(msgs, page)
	return msgs, hasMore, err
}

// Finalize 将占位的模型消息落定为最终内容与用量
func (m *mongoMapper) Finalize(ctx context.Context, mid primitive.ObjectID, content string, usage *Usage) (err error) {
	var ori Message
	update := bson.M{"content": content, cst.Status: StatusDefault}
	if usage != nil {
		update["usage"] = usage
	}
	if err = m.conn.FindOneAndUpdateNoCache(ctx, &ori, bson.M{cst.Id: mid}, bson.M{cst.Set: update}); err != nil {
		return err
	}
	return nil
}

// UpdateStatus 修改消息状态
func (m *mongoMapper) UpdateStatus(ctx context.Context, mid primitive.ObjectID, status int32) (err error) {
	var ori Message
	if err = m.conn.FindOneAndUpdateNoCache(ctx, &ori, bson.M{cst.Id: mid}, bson.M{cst.Set: bson.M{cst.Status: status}}); err != nil {
		return err
	}
	return nil
}
