package database

const (
	UsersCollection     = "users"
	ChatsCollection     = "chats"
	MedicinesCollection = "medicines"
)
