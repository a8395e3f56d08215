package entity

// Role は認可を制御するユーザーの区分で、値は固定です。
// 比較は完全一致（大文字小文字を区別）で、ロール間に継承関係はありません。
type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleBanned        Role = "Banned"
	RoleUser          Role = "User"
	RoleHost          Role = "Host"
)

// Roles は有効なロールの一覧です。
var Roles = []Role{RoleAdministrator, RoleBanned, RoleUser, RoleHost}

// ActiveRoles はコンテンツの作成・変更ができるロールです。Bannedは含みません。
var ActiveRoles = []Role{RoleUser, RoleHost, RoleAdministrator}

// Valid はrが既知のロールかを返します。
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
