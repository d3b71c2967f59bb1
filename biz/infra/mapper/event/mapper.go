package event

import (
	"context"
	"time"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var _ MongoMapper = (*mongoMapper)(nil)

const collection = "event"

type MongoMapper interface {
	Append(ctx context.Context, e *Event) (err error)
	ListByRun(ctx context.Context, tid primitive.ObjectID, runId string) (es []*Event, err error)
}

type mongoMapper struct {
	conn *monc.Model
}

func NewEventMongoMapper(config *config.Config) MongoMapper {
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, collection, config.Cache)
	return &mongoMapper{conn: conn}
}

// Append 追加一条事件, 审计用, 不缓存
func (m *mongoMapper) Append(ctx context.Context, e *Event) (err error) {
	if e.EventId.IsZero() {
		e.EventId = primitive.NewObjectID()
	}
	if e.CreateTime.IsZero() {
		e.CreateTime = time.Now()
	}
	_, err = m.conn.InsertOneNoCache(ctx, e)
	return err
}

// ListByRun 按运行取出全部事件, 追加顺序
func (m *mongoMapper) ListByRun(ctx context.Context, tid primitive.ObjectID, runId string) (es []*Event, err error) {
	opts := options.Find().SetSort(bson.M{cst.Id: 1})
	if err = m.conn.Find(ctx, &es, bson.M{cst.ThreadId: tid, "run_id": runId}, opts); err != nil {
		return nil, err
	}
	return es, nil
}
