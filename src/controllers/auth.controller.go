package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"etix/src/db"
	"etix/src/lib"
	"etix/src/models"
	"etix/src/types"
	"etix/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func AuthRegister(ctx *gin.Context) (res *AuthResponse, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	role := body.Role
	if role == "" {
		role = types.ROLE_BOOKER
	}

	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		log.Printf("Error hashing password: %s\n", err.Error())
		return nil, http.StatusInternalServerError, errors.New("could not register user")
	}

	d := db.GetDb()
	newUser := models.User{
		Email:        body.Email,
		Name:         body.Name,
		Role:         role,
		PasswordHash: hash,
	}
	err = d.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.
			Model(&models.User{}).
			Select("id").
			Where("email = ?", body.Email).
			First(&existing).
			Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("could not complete transaction")
			}
		}
		if existing.ID > 0 {
			return errors.New("user is already registered in the system. Please proceed to Log In")
		}
		if err := tx.Create(&newUser).Error; err != nil {
			log.Printf("Error creating user: %s\n", err.Error())
			return fmt.Errorf("error creating user: %s", body.Email)
		}
		return nil
	})
	if err != nil {
		return nil, http.StatusConflict, err
	}

	token, err := utils.GenerateJWT(newUser.Email, newUser.ID, newUser.Role)
	if err != nil {
		log.Printf("Error signing token for user [%d]: %s\n", newUser.ID, err.Error())
		return nil, http.StatusInternalServerError, errors.New("could not issue token")
	}
	return &AuthResponse{User: &newUser, Token: token}, http.StatusCreated, nil
}

func AuthLogin(ctx *gin.Context) (res *AuthResponse, status int, err error) {
	var body types.LoginUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	d := db.GetDb()
	var user models.User
	if err := d.
		Model(&models.User{}).
		Where(&models.User{Email: body.Email}).
		First(&user).
		Error; err != nil {
		log.Printf("login failed for %s: %s\n", body.Email, err.Error())
		return nil, http.StatusUnauthorized, errors.New("Invalid credentials")
	}
	if !utils.CheckPassword(user.PasswordHash, body.Password) {
		return nil, http.StatusUnauthorized, errors.New("Invalid credentials")
	}

	token, err := utils.GenerateJWT(user.Email, user.ID, user.Role)
	if err != nil {
		log.Printf("Error signing token for user [%d]: %s\n", user.ID, err.Error())
		return nil, http.StatusInternalServerError, errors.New("could not issue token")
	}

	rd := lib.GetRedisClient()
	if _, err := rd.JSONSet(ctx, fmt.Sprintf("%d:user", user.ID), "$", &user).Result(); err != nil {
		log.Printf("[redis] Error updating user cache: %s\n", err.Error())
	}

	return &AuthResponse{User: &user, Token: token}, http.StatusOK, nil
}
