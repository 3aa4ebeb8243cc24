package excursion

import "github.com/Groisin18/Excursions-bot-sub000/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
