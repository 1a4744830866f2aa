package mocks

import "gorm.io/modelkit"
import "github.com/stretchr/testify/mock"

import (
	"context"
)

type Dataset struct {
	mock.Mock

	model *modelkit.Model
}

func (_m *Dataset) DB() modelkit.Database {
	ret := _m.Called()

	var r0 modelkit.Database
	if rf, ok := ret.Get(0).(func() modelkit.Database); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(modelkit.Database)
		}
	}

	return r0
}
func (_m *Dataset) Options() modelkit.DatasetOptions {
	ret := _m.Called()

	var r0 modelkit.DatasetOptions
	if rf, ok := ret.Get(0).(func() modelkit.DatasetOptions); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(modelkit.DatasetOptions)
	}

	return r0
}
func (_m *Dataset) Model() *modelkit.Model {
	return _m.model
}
func (_m *Dataset) SetModel(m *modelkit.Model) {
	_m.model = m
}
func (_m *Dataset) Clone() modelkit.Dataset {
	ret := _m.Called()

	var r0 modelkit.Dataset
	if rf, ok := ret.Get(0).(func() modelkit.Dataset); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(modelkit.Dataset)
		}
	}

	return r0
}
func (_m *Dataset) Where(conds map[string]interface{}) modelkit.Dataset {
	ret := _m.Called(conds)

	var r0 modelkit.Dataset
	if rf, ok := ret.Get(0).(func(map[string]interface{}) modelkit.Dataset); ok {
		r0 = rf(conds)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(modelkit.Dataset)
		}
	}

	return r0
}
func (_m *Dataset) Select(columns ...string) modelkit.Dataset {
	ret := _m.Called(columns)

	var r0 modelkit.Dataset
	if rf, ok := ret.Get(0).(func(...string) modelkit.Dataset); ok {
		r0 = rf(columns...)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(modelkit.Dataset)
		}
	}

	return r0
}
func (_m *Dataset) Order(columns ...string) modelkit.Dataset {
	ret := _m.Called(columns)

	var r0 modelkit.Dataset
	if rf, ok := ret.Get(0).(func(...string) modelkit.Dataset); ok {
		r0 = rf(columns...)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(modelkit.Dataset)
		}
	}

	return r0
}
func (_m *Dataset) Limit(limit int) modelkit.Dataset {
	ret := _m.Called(limit)

	var r0 modelkit.Dataset
	if rf, ok := ret.Get(0).(func(int) modelkit.Dataset); ok {
		r0 = rf(limit)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(modelkit.Dataset)
		}
	}

	return r0
}
func (_m *Dataset) Columns(ctx context.Context) ([]string, error) {
	ret := _m.Called(ctx)

	var r0 []string
	if rf, ok := ret.Get(0).(func(context.Context) []string); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]string)
		}
	}

	return r0, ret.Error(1)
}
func (_m *Dataset) All(ctx context.Context) ([]map[string]interface{}, error) {
	ret := _m.Called(ctx)

	var r0 []map[string]interface{}
	if rf, ok := ret.Get(0).(func(context.Context) []map[string]interface{}); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]map[string]interface{})
		}
	}

	return r0, ret.Error(1)
}
func (_m *Dataset) First(ctx context.Context) (map[string]interface{}, error) {
	ret := _m.Called(ctx)

	var r0 map[string]interface{}
	if rf, ok := ret.Get(0).(func(context.Context) map[string]interface{}); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(map[string]interface{})
		}
	}

	return r0, ret.Error(1)
}
func (_m *Dataset) Count(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)

	var r0 int64
	if rf, ok := ret.Get(0).(func(context.Context) int64); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Get(0).(int64)
	}

	return r0, ret.Error(1)
}
func (_m *Dataset) Insert(ctx context.Context, values map[string]interface{}) (interface{}, error) {
	ret := _m.Called(ctx, values)

	var r0 interface{}
	if rf, ok := ret.Get(0).(func(context.Context, map[string]interface{}) interface{}); ok {
		r0 = rf(ctx, values)
	} else {
		r0 = ret.Get(0)
	}

	return r0, ret.Error(1)
}
func (_m *Dataset) Update(ctx context.Context, values map[string]interface{}) (int64, error) {
	ret := _m.Called(ctx, values)

	var r0 int64
	if rf, ok := ret.Get(0).(func(context.Context, map[string]interface{}) int64); ok {
		r0 = rf(ctx, values)
	} else {
		r0 = ret.Get(0).(int64)
	}

	return r0, ret.Error(1)
}
func (_m *Dataset) Delete(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)

	var r0 int64
	if rf, ok := ret.Get(0).(func(context.Context) int64); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Get(0).(int64)
	}

	return r0, ret.Error(1)
}
