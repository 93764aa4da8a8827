package server

import (
	"net/http"

	userdomain "github.com/M-Haris-27/ZoroPay/internal/user/domain"
	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	PhoneNo string `json:"phoneNo"`
}

type updateUserRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	PhoneNo *string `json:"phoneNo"`
	Avatar  *string `json:"avatar"`
}

func (s *Server) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.userSvc.Create(c.Request.Context(), userdomain.CreateUserRequest{
		Name:    req.Name,
		Email:   req.Email,
		PhoneNo: req.PhoneNo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"data":    resp,
	})
}

func (s *Server) ListUsers(c *gin.Context) {
	users, err := s.userSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": users})
}

func (s *Server) GetUserByID(c *gin.Context) {
	user, err := s.userSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

func (s *Server) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user, err := s.userSvc.Update(c.Request.Context(), userdomain.UpdateUserRequest{
		ID:      c.Param("id"),
		Name:    req.Name,
		Email:   req.Email,
		PhoneNo: req.PhoneNo,
		Avatar:  req.Avatar,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

func (s *Server) DeleteUser(c *gin.Context) {
	if err := s.userSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}
