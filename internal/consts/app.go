package consts

import "time"

const (
	ApplicationName    = "PicVote Server"
	ApplicationVersion = "v1.0.0"
)

// 评分取值范围
const (
	MinVoteRate = 1
	MaxVoteRate = 5
)

// 首页榜单时间窗口
const (
	TopImagesDayWindow  = 24 * time.Hour
	TopImagesWeekWindow = 7 * 24 * time.Hour
)

// 上传文件在存储中的根前缀，实际路径为 images/YYYY/MM/DD/<uuid><ext>
const ImageStoragePrefix = "images"

const (
	DescriptionMaxLength = 250
	UsernameMaxLength    = 32
)
