// file: controllers/user_controller.go
package controllers

import (
	"errors"

	"github.com/3liuhuo/DummyCTFPlatform/models"
	"github.com/3liuhuo/DummyCTFPlatform/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserController struct {
	db *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// Register 用户注册
func (ctl *UserController) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
		Nickname string `json:"nickname" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	// 不做先查后插：并发注册同名用户会双双通过预查，
	// 唯一性只信数据库 username 唯一键，冲突在这里统一识别
	newUser := models.User{
		Username: req.Username,
		Password: req.Password,
		Nickname: req.Nickname,
	}
	if err := ctl.db.Create(&newUser).Error; err != nil {
		code, msg := registerErrorCode(err)
		utils.Error(c, code, msg)
		return
	}

	utils.Success(c, "User registered successfully", gin.H{
		"id":       newUser.ID,
		"username": newUser.Username,
		"nickname": newUser.Nickname,
		"role":     newUser.Role,
	})
}

// registerErrorCode 注册落库失败的响应码：唯一键冲突即用户名重复
func registerErrorCode(err error) (int, string) {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return 2001, "用户名已被注册"
	}
	return 5000, "数据库错误: " + err.Error()
}

// Login 用户登录，返回 JWT
func (ctl *UserController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	var user models.User
	if err := ctl.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		utils.Error(c, 2002, "用户不存在或密码错误")
		return
	}
	if !user.CheckPassword(req.Password) {
		utils.Error(c, 2002, "用户不存在或密码错误")
		return
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.Error(c, 5000, "生成 Token 失败")
		return
	}

	utils.Success(c, "success", gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"nickname": user.Nickname,
			"role":     user.Role,
		},
	})
}
