// Package domain defines the entities of the blog: users, posts, categories and comments.
package domain
