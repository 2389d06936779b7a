package model

// Role 用户角色枚举，授权判断只允许基于这个封闭枚举
type Role string

const (
	RoleOfficial      Role = "official"       // 普通公务人员，告警主体
	RoleSecurityTeam  Role = "security_team"  // 安保组成员，响应人
	RoleSecurityAdmin Role = "security_admin" // 安保管理员
)

// Valid 判断角色是否为合法取值
func (r Role) Valid() bool {
	switch r {
	case RoleOfficial, RoleSecurityTeam, RoleSecurityAdmin:
		return true
	}
	return false
}

// IsSecurity 安保角色可以查看并处置任意用户的警报
func (r Role) IsSecurity() bool {
	return r == RoleSecurityTeam || r == RoleSecurityAdmin
}

// Profile 用户档案模型
type Profile struct {
	BaseModel
	FullName string  `gorm:"type:varchar(128);not null;default:''" json:"full_name"`
	Email    string  `gorm:"type:varchar(255);not null;default:''" json:"email"`
	Phone    *string `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Role     Role    `gorm:"type:varchar(32);not null;default:'official';index:idx_profiles_role_active" json:"role"`
	IsActive bool    `gorm:"not null;default:true;index:idx_profiles_role_active" json:"is_active"`
}

// TableName 指定表名
func (Profile) TableName() string {
	return "profiles"
}
