package thread

import (
	"context"
	"time"

	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/basic"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/util"
	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx"
	"github.com/xh-polaris/brandstudio-core-api/pkg/logs"
	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var _ MongoMapper = (*mongoMapper)(nil)

const (
	collection     = "thread"
	cacheKeyPrefix = "cache:thread:"
)

type MongoMapper interface {
	CreateNewThread(ctx context.Context, uid, title, persona string) (t *Thread, err error)
	FindOne(ctx context.Context, uid, tid string) (t *Thread, err error)
	ListThreads(ctx context.Context, uid string, page *basic.Page) (ts []*Thread, hasMore bool, err error)
	RenameThread(ctx context.Context, uid, tid, title string) (err error)
	DeleteThread(ctx context.Context, uid, tid string) (err error)
	TouchThread(ctx context.Context, tid string) (err error)
}

type mongoMapper struct {
	conn *monc.Model
}

func NewThreadMongoMapper(config *config.Config) MongoMapper {
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, collection, config.Cache)
	return &mongoMapper{conn: conn}
}

// CreateNewThread 创建并缓存一个新的线程
func (m *mongoMapper) CreateNewThread(ctx context.Context, uid, title, persona string) (t *Thread, err error) {
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		logs.Errorf("[thread mapper] from hex err:%s", errorx.ErrorWithoutStack(err))
		return nil, err
	}

	if title == "" {
		title = "Hilo sin título"
	}
	now := time.Now()
	t = &Thread{
		ThreadId:   primitive.NewObjectID(),
		UserId:     oid,
		Title:      title,
		Persona:    persona,
		CreateTime: now,
		UpdateTime: now,
	}
	_, err = m.conn.InsertOne(ctx, cacheKeyPrefix+t.ThreadId.Hex(), t)
	return t, err
}

// FindOne 查找uid名下未删除的线程
func (m *mongoMapper) FindOne(ctx context.Context, uid, tid string) (t *Thread, err error) {
	oids, err := util.ObjectIDsFromHex(uid, tid)
	if err != nil {
		return nil, err
	}
	t = new(Thread)
	filter := bson.M{cst.Id: oids[1], cst.UserId: oids[0], cst.Status: bson.M{cst.NE: cst.DeletedStatus}}
	if err = m.conn.FindOne(ctx, cacheKeyPrefix+tid, t, filter); err != nil {
		return nil, err
	}
	return t, nil
}

// ListThreads 分页查询用户线程列表, 更新时间倒序
func (m *mongoMapper) ListThreads(ctx context.Context, uid string, page *basic.Page) (ts []*Thread, hasMore bool, err error) {
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		logs.Errorf("[thread mapper] from hex err:%s", errorx.ErrorWithoutStack(err))
		return nil, false, err
	}

	var total int64
	opts := util.BuildFindOption(page).SetSort(bson.M{cst.UpdateTime: -1})
	filter := bson.M{cst.UserId: oid, cst.Status: bson.M{cst.NE: cst.DeletedStatus}}
	if err = m.conn.Find(ctx, &ts, filter, opts); err != nil {
		return nil, false, err
	}
	if total, err = m.conn.CountDocuments(ctx, filter); err != nil {
		return nil, false, err
	}
	return ts, util.HasMore(total, page), err
}

// RenameThread 更新线程标题
func (m *mongoMapper) RenameThread(ctx context.Context, uid, tid, title string) (err error) {
	oids, err := util.ObjectIDsFromHex(uid, tid)
	if err != nil {
		logs.Errorf("[thread mapper] from hex err:%s", errorx.ErrorWithoutStack(err))
		return err
	}
	filter := bson.M{cst.Id: oids[1], cst.UserId: oids[0], cst.Status: bson.M{cst.NE: cst.DeletedStatus}}
	_, err = m.conn.UpdateOne(ctx, cacheKeyPrefix+tid, filter,
		bson.M{cst.Set: bson.M{cst.UpdateTime: time.Now(), cst.Title: title}})
	return err
}

// DeleteThread 软删除线程
func (m *mongoMapper) DeleteThread(ctx context.Context, uid, tid string) (err error) {
	oids, err := util.ObjectIDsFromHex(uid, tid)
	if err != nil {
		logs.Errorf("[thread mapper] from hex err:%s", errorx.ErrorWithoutStack(err))
		return err
	}
	now := time.Now()
	filter := bson.M{cst.Id: oids[1], cst.UserId: oids[0], cst.Status: bson.M{cst.NE: cst.DeletedStatus}}
	_, err = m.conn.UpdateOne(ctx, cacheKeyPrefix+tid, filter,
		bson.M{cst.Set: bson.M{cst.UpdateTime: now, cst.DeleteTime: now, cst.Status: cst.DeletedStatus}})
	return err
}

// TouchThread 在线程内有新消息时刷新更新时间
func (m *mongoMapper) TouchThread(ctx context.Context, tid string) (err error) {
	oid, err := primitive.ObjectIDFromHex(tid)
	if err != nil {
		return err
	}
	_, err = m.conn.UpdateOne(ctx, cacheKeyPrefix+tid, bson.M{cst.Id: oid},
		bson.M{cst.Set: bson.M{cst.UpdateTime: time.Now()}})
	return err
}
