package main

import "github.com/Piladin/ZTPAI/cmd"

// @title                       Tutoring Marketplace API
// @version                     1.0
// @description                 Accounts, JWT authentication and tutoring announcements.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
func main() {
	cmd.Execute()
}
