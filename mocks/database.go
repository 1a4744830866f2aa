package mocks

import "gorm.io/modelkit"
import "gorm.io/modelkit/schema"
import "github.com/stretchr/testify/mock"

import (
	"context"
)

type Database struct {
	mock.Mock
}

func (_m *Database) From(table string) modelkit.Dataset {
	ret := _m.Called(table)

	var r0 modelkit.Dataset
	if rf, ok := ret.Get(0).(func(string) modelkit.Dataset); ok {
		r0 = rf(table)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(modelkit.Dataset)
		}
	}

	return r0
}
func (_m *Database) Schema(ctx context.Context, table string) ([]schema.Column, error) {
	ret := _m.Called(ctx, table)

	var r0 []schema.Column
	if rf, ok := ret.Get(0).(func(context.Context, string) []schema.Column); ok {
		r0 = rf(ctx, table)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]schema.Column)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, table)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
func (_m *Database) Fetch(sql string, args ...interface{}) modelkit.Dataset {
	ret := _m.Called(sql, args)

	var r0 modelkit.Dataset
	if rf, ok := ret.Get(0).(func(string, ...interface{}) modelkit.Dataset); ok {
		r0 = rf(sql, args...)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(modelkit.Dataset)
		}
	}

	return r0
}
func (_m *Database) Transaction(ctx context.Context, fc func(ctx context.Context) error) error {
	ret := _m.Called(ctx, fc)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, func(context.Context) error) error); ok {
		r0 = rf(ctx, fc)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
