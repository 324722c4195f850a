package vessel

import (
	"context"
	"time"

	apperrors "github.com/hairun/fleetops/pkg/errors"
)

// Vessel 船舶实体
// 参照数据:由基础资料维护,本系统只读引用(领用单、更换单关联船舶)
type Vessel struct {
	ID        uint
	Name      string // 船名
	RegNo     string // 船舶登记号
	Remark    string // 备注
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ErrVesselNotFound 船舶不存在
var ErrVesselNotFound = apperrors.New(apperrors.ErrCodeVesselNotFound, "船舶不存在")

// Repository 船舶仓储接口(只读)
type Repository interface {
	// FindByID 根据ID查找船舶
	FindByID(ctx context.Context, id uint) (*Vessel, error)

	// List 查询全部船舶(基础资料量小,不分页)
	List(ctx context.Context) ([]*Vessel, error)
}
