package consts

type UserField string

const (
	UserFieldUsername UserField = "username"
	UserFieldEmail    UserField = "email"
)

// 用户状态
const (
	UserStatusNormal = 1
	UserStatusBanned = 2
)
